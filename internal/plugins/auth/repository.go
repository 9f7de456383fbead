package auth

import (
	"context"

	"github.com/eccearchive/ecce/internal/cms"
)

// CredentialSource supplies the role-to-credential map used to authenticate
// research-mode logins. The production implementation reads it from the CMS
// global settings on every call: curators rotate passwords in the CMS and
// expect the change to take effect immediately, so the map is deliberately
// not cached.
type CredentialSource interface {
	Credentials(ctx context.Context) (map[string]string, error)
}

// cmsCredentialSource reads the credential map from the CMS.
type cmsCredentialSource struct {
	client *cms.Client
}

// NewCMSCredentialSource creates a CredentialSource backed by the CMS
// global settings record.
func NewCMSCredentialSource(client *cms.Client) CredentialSource {
	return &cmsCredentialSource{client: client}
}

func (s *cmsCredentialSource) Credentials(ctx context.Context) (map[string]string, error) {
	return s.client.ResearchAccess(ctx)
}
