package google

import (
	"context"
	"encoding/json"

	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/groupssettings/v1"
	"google.golang.org/api/licensing/v1"
	"google.golang.org/api/option"
)

const ProviderKey = "google"

const pageSize = 500

type Provider struct {
	CredentialsFile  string            `json:"credentialsFile"`
	Customer         string            `json:"customer"`
	Domain           string            `json:"domain"`
	LicenseProductID string            `json:"licenseProductId"`
	LicenseSKUs      map[string]string `json:"licenseSkus"` // role name -> SKU ID

	directory *admin.Service
	settings  *groupssettings.Service
	licensing *licensing.Service
}

func FromJson(data []byte) (*Provider, error) {
	p := &Provider{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Provider) customer() string {
	if p.Customer == "" {
		return "my_customer"
	}
	return p.Customer
}

func (p *Provider) Connect() error {
	if p.directory != nil {
		return nil
	}
	ctx := context.Background()
	var opts []option.ClientOption
	if p.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(p.CredentialsFile))
	}

	directoryOpts := append([]option.ClientOption{option.WithScopes(
		admin.AdminDirectoryUserScope,
		admin.AdminDirectoryGroupScope,
		admin.AdminDirectoryGroupMemberScope,
	)}, opts...)
	directory, err := admin.NewService(ctx, directoryOpts...)
	if err != nil {
		return err
	}

	settingsOpts := append([]option.ClientOption{option.WithScopes(
		groupssettings.AppsGroupsSettingsScope,
	)}, opts...)
	settings, err := groupssettings.NewService(ctx, settingsOpts...)
	if err != nil {
		return err
	}

	licensingOpts := append([]option.ClientOption{option.WithScopes(
		licensing.AppsLicensingScope,
	)}, opts...)
	licensingService, err := licensing.NewService(ctx, licensingOpts...)
	if err != nil {
		return err
	}

	p.directory = directory
	p.settings = settings
	p.licensing = licensingService
	return nil
}

func (p *Provider) Close() error {
	p.directory = nil
	p.settings = nil
	p.licensing = nil
	return nil
}
