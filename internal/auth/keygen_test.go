package auth

import (
	"strings"
	"testing"
)

func TestGenerateToken(t *testing.T) {
	generated, err := GenerateToken(EnvLive)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if !strings.HasPrefix(generated.Plaintext, "nt_live_") {
		t.Errorf("expected nt_live_ prefix, got %q", generated.Plaintext)
	}
	if len(generated.Prefix) != TokenPrefixLen {
		t.Errorf("expected prefix length %d, got %d", TokenPrefixLen, len(generated.Prefix))
	}
	if !ValidateTokenFormat(generated.Plaintext) {
		t.Errorf("generated token does not match expected format: %q", generated.Plaintext)
	}

	// The plaintext must verify against the stored hash.
	match, err := VerifyToken(generated.Plaintext, generated.Hash)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if !match {
		t.Error("generated token does not verify against its hash")
	}
}

func TestGenerateToken_DefaultsToLive(t *testing.T) {
	generated, err := GenerateToken("staging")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if !strings.HasPrefix(generated.Plaintext, "nt_live_") {
		t.Errorf("expected unknown env to default to live, got %q", generated.Plaintext)
	}
}

func TestGenerateToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		generated, err := GenerateToken(EnvTest)
		if err != nil {
			t.Fatalf("GenerateToken failed: %v", err)
		}
		if seen[generated.Plaintext] {
			t.Fatal("duplicate token generated")
		}
		seen[generated.Plaintext] = true
	}
}

func TestParseToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantEnv string
		wantErr bool
	}{
		{
			name:    "valid_live",
			token:   "nt_live_7a9b3c_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b",
			wantEnv: "live",
		},
		{
			name:    "valid_test",
			token:   "nt_test_aabbcc_00112233445566778899aabbccddeeff",
			wantEnv: "test",
		},
		{"empty", "", "", true},
		{"wrong_prefix", "pk_live_7a9b3c_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b", "", true},
		{"short_secret", "nt_live_7a9b3c_4f8d2e1b", "", true},
		{"uppercase_hex", "nt_live_7A9B3C_4F8D2E1B9C7A5F3D2E1B9C7A5F3D2E1B", "", true},
		{"bad_env", "nt_prod_7a9b3c_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b", "", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			parsed, err := ParseToken(test.token)
			if test.wantErr {
				if err == nil {
					t.Error("expected parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseToken failed: %v", err)
			}
			if parsed.Env != test.wantEnv {
				t.Errorf("Env = %q, want %q", parsed.Env, test.wantEnv)
			}
			if len(parsed.Prefix) != TokenPrefixLen {
				t.Errorf("Prefix length = %d, want %d", len(parsed.Prefix), TokenPrefixLen)
			}
			if len(parsed.Secret) != TokenSecretLen {
				t.Errorf("Secret length = %d, want %d", len(parsed.Secret), TokenSecretLen)
			}
		})
	}
}
