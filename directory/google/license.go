package google

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/licensing/v1"
)

func (p *Provider) skuForRole(role string) (string, error) {
	sku, ok := p.LicenseSKUs[role]
	if !ok {
		return "", fmt.Errorf("no license sku configured for role %q", role)
	}
	return sku, nil
}

// AssignLicense grants the configured SKU for role to the user. Assigning a
// license the user already holds is not an error.
func (p *Provider) AssignLicense(ctx context.Context, userMail, role string) error {
	sku, err := p.skuForRole(role)
	if err != nil {
		return err
	}
	if err := p.Connect(); err != nil {
		return err
	}

	assignment := &licensing.LicenseAssignmentInsert{UserId: userMail}
	_, err = p.licensing.LicenseAssignments.Insert(p.LicenseProductID, sku, assignment).Context(ctx).Do()
	if isAPIStatus(err, http.StatusConflict) || isAPIStatus(err, http.StatusPreconditionFailed) {
		return nil
	}
	return err
}

// RevokeLicense removes the role's SKU from the user. A user without the
// license is not an error.
func (p *Provider) RevokeLicense(ctx context.Context, userMail, role string) error {
	sku, err := p.skuForRole(role)
	if err != nil {
		return err
	}
	if err := p.Connect(); err != nil {
		return err
	}

	_, err = p.licensing.LicenseAssignments.Delete(p.LicenseProductID, sku, userMail).Context(ctx).Do()
	if isAPIStatus(err, http.StatusNotFound) {
		return nil
	}
	return err
}

// LicensedUsers lists the mail addresses currently holding the role's SKU.
func (p *Provider) LicensedUsers(ctx context.Context, role string) ([]string, error) {
	sku, err := p.skuForRole(role)
	if err != nil {
		return nil, err
	}
	if err := p.Connect(); err != nil {
		return nil, err
	}

	var users []string
	pageToken := ""
	for {
		call := p.licensing.LicenseAssignments.ListForProductAndSku(p.LicenseProductID, sku, p.customer()).
			Context(ctx).MaxResults(pageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		page, err := call.Do()
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			users = append(users, item.UserId)
		}
		if page.NextPageToken == "" {
			return users, nil
		}
		pageToken = page.NextPageToken
	}
}

// HasLicense reports whether the user currently holds the role's SKU.
func (p *Provider) HasLicense(ctx context.Context, userMail, role string) (bool, error) {
	sku, err := p.skuForRole(role)
	if err != nil {
		return false, err
	}
	if err := p.Connect(); err != nil {
		return false, err
	}

	_, err = p.licensing.LicenseAssignments.Get(p.LicenseProductID, sku, userMail).Context(ctx).Do()
	if isAPIStatus(err, http.StatusNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
