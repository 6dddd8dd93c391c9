package profiles_test

import (
	"encoding/base64"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	prof "github.com/framehubio/framehub/pkg/config/profiles"
	"github.com/golang-jwt/jwt/v5"
)

func TestConfig(t *testing.T) {
	t.Run("unmarshalling works well", func(t *testing.T) {
		conf, err := prof.Unmarshall([]byte(`
profname:
    apiRoot: "https://api.example.com"
    token: "SECRET_TOKEN"
    cert:
        ca: BASE64_ENCODED_CERT
`))
		if err != nil {
			t.Fatalf("failed to unmarshal.: %+v", err)
		}
		p, ok := conf["profname"]
		if !ok {
			t.Fatal("config has not profile")
		}

		expectedApiRoot := "https://api.example.com"
		if p.ApiRoot != expectedApiRoot {
			t.Errorf("prof.ApiRoot unmatch. (actual, expected) = (%s, %s)", p.ApiRoot, expectedApiRoot)
		}

		expectedToken := "SECRET_TOKEN"
		if p.Token != expectedToken {
			t.Errorf("prof.Token unmatch. (actual, expected) = (%s, %s)", p.Token, expectedToken)
		}

		expectedCACert := "BASE64_ENCODED_CERT"
		if p.Cert.CA != expectedCACert {
			t.Errorf("prof.Cert.CA unmatch. (actual, expected) = (%v, %v)", p.Cert.CA, expectedCACert)
		}
	})
}

func TestProfile(t *testing.T) {

	cacert := pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: []byte("not really a cert, but a PEM block"),
	})

	t.Run("verify profile", func(t *testing.T) {
		for name, testcase := range map[string]struct {
			prof      *prof.Profile
			toBeValid error
		}{
			"all value is valid, it is valid": {
				prof: &prof.Profile{
					ApiRoot: "https://api.example.com",
					Token:   "SECRET_TOKEN",
					Cert: prof.Cert{
						CA: base64.StdEncoding.EncodeToString(cacert),
					},
				},
				toBeValid: nil,
			},
			"no CA cert is ok": {
				prof: &prof.Profile{
					ApiRoot: "https://api.example.com",
					Cert: prof.Cert{
						CA: "",
					},
				},
				toBeValid: nil,
			},
			"when api url is broken, it is not valid": {
				prof: &prof.Profile{
					ApiRoot: "not url",
					Cert:    prof.Cert{},
				},
				toBeValid: prof.ErrProfileInvalid,
			},
			"when CA cert is not PEM, it is not valid": {
				prof: &prof.Profile{
					ApiRoot: "https://api.example.com",
					Cert: prof.Cert{
						CA: base64.StdEncoding.EncodeToString([]byte("broken cert")),
					},
				},
				toBeValid: prof.ErrProfileInvalid,
			},
		} {
			t.Run(name, func(t *testing.T) {
				if !errors.Is(testcase.prof.Verify(), testcase.toBeValid) {
					t.Errorf(
						"profile verification wrong. toBeValid?(=%v) content = %+v",
						testcase.toBeValid, testcase.prof,
					)
				}
			})
		}
	})

	t.Run("token expiry", func(t *testing.T) {
		t.Run("expiry of a JWT token is extracted", func(t *testing.T) {
			expiry := time.Now().Add(2 * time.Hour).Truncate(time.Second)
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"sub": "someone",
				"exp": expiry.Unix(),
			}).SignedString([]byte("test-signing-key"))
			if err != nil {
				t.Fatalf("failed to build token: %v", err)
			}

			p := &prof.Profile{ApiRoot: "https://api.example.com", Token: token}
			actual, ok := p.TokenExpiry()
			if !ok {
				t.Fatal("expiry is not extracted")
			}
			if !actual.Equal(expiry) {
				t.Errorf("expiry unmatch. (actual, expected) = (%s, %s)", actual, expiry)
			}
		})

		t.Run("an opaque token has no expiry", func(t *testing.T) {
			p := &prof.Profile{ApiRoot: "https://api.example.com", Token: "opaque-api-token"}
			if _, ok := p.TokenExpiry(); ok {
				t.Error("expiry should not be extracted from non-JWT token")
			}
		})

		t.Run("an empty token has no expiry", func(t *testing.T) {
			p := &prof.Profile{ApiRoot: "https://api.example.com"}
			if _, ok := p.TokenExpiry(); ok {
				t.Error("expiry should not be extracted from empty token")
			}
		})
	})
}

func TestFromEnv(t *testing.T) {
	t.Run("profile is built from environment variables", func(t *testing.T) {
		t.Setenv(prof.EnvApiRoot, "https://api.example.com")
		t.Setenv(prof.EnvToken, "TOKEN_FROM_ENV")
		t.Setenv(prof.EnvCaCert, "")

		p, err := prof.FromEnv()
		if err != nil {
			t.Fatalf("failed to build profile: %v", err)
		}
		if p.ApiRoot != "https://api.example.com" {
			t.Errorf("ApiRoot unmatch: %s", p.ApiRoot)
		}
		if p.Token != "TOKEN_FROM_ENV" {
			t.Errorf("Token unmatch: %s", p.Token)
		}
	})

	t.Run("dotenv file in cwd is loaded", func(t *testing.T) {
		temp := t.TempDir()
		envfile := filepath.Join(temp, prof.EnvFile)
		if err := os.WriteFile(envfile, []byte(
			prof.EnvApiRoot+"=https://dotenv.example.com\n"+
				prof.EnvToken+"=TOKEN_FROM_FILE\n",
		), 0600); err != nil {
			t.Fatalf("failed to write dotenv file: %v", err)
		}

		cwd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(temp); err != nil {
			t.Fatal(err)
		}
		defer os.Chdir(cwd)

		t.Setenv(prof.EnvApiRoot, "")
		os.Unsetenv(prof.EnvApiRoot)
		t.Setenv(prof.EnvToken, "")
		os.Unsetenv(prof.EnvToken)

		p, err := prof.FromEnv()
		if err != nil {
			t.Fatalf("failed to build profile: %v", err)
		}
		if p.ApiRoot != "https://dotenv.example.com" {
			t.Errorf("ApiRoot unmatch: %s", p.ApiRoot)
		}
		if p.Token != "TOKEN_FROM_FILE" {
			t.Errorf("Token unmatch: %s", p.Token)
		}
	})

	t.Run("missing api root is an error", func(t *testing.T) {
		t.Setenv(prof.EnvApiRoot, "")
		os.Unsetenv(prof.EnvApiRoot)

		if _, err := prof.FromEnv(); !errors.Is(err, prof.ErrProfileInvalid) {
			t.Errorf("expected ErrProfileInvalid, got %v", err)
		}
	})
}
