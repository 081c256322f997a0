package prompt

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Credential is one entry of a credentials file.
type Credential struct {
	Host     string `yaml:"host"`
	Password string `yaml:"password"`
	Skip     bool   `yaml:"skip"`
}

// CredentialsFile is the document read by LoadCredentials.
type CredentialsFile struct {
	Credentials []Credential `yaml:"credentials"`
}

// FromFile answers prompts from a credentials file, for runs without a
// terminal. Clusters with authentication enabled and no entry are skipped, as
// is any cluster whose previous attempt failed.
type FromFile struct {
	byHost map[string]Credential
}

// NewFromFile builds a prompter from parsed credentials.
func NewFromFile(creds []Credential) *FromFile {
	byHost := make(map[string]Credential, len(creds))
	for _, c := range creds {
		byHost[c.Host] = c
	}
	return &FromFile{byHost: byHost}
}

// LoadCredentials reads a YAML credentials file. Passwords may reference
// environment variables as $VAR or ${VAR}.
func LoadCredentials(path string) (*FromFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var doc CredentialsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	for i, c := range doc.Credentials {
		if c.Host == "" {
			return nil, fmt.Errorf("credentials entry %d: host is required", i+1)
		}
		doc.Credentials[i].Password = os.ExpandEnv(c.Password)
	}
	return NewFromFile(doc.Credentials), nil
}

// Ask implements Prompter.
func (f *FromFile) Ask(_ context.Context, req Request) (Answer, error) {
	if req.LastErr != nil {
		return Answer{Action: ActionSkip}, nil
	}

	cred, ok := f.byHost[req.Project.Host]
	if ok && cred.Skip {
		return Answer{Action: ActionSkip}, nil
	}
	if !req.Project.RequiresPassword() {
		return Answer{Action: ActionUpgrade}, nil
	}
	if !ok || cred.Password == "" {
		return Answer{Action: ActionSkip}, nil
	}
	return Answer{Action: ActionUpgrade, Password: cred.Password}, nil
}
