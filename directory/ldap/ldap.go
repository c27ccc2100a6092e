package ldap

import (
	"encoding/json"
	"fmt"

	"github.com/go-ldap/ldap/v3"
)

const ProviderKey = "ldap"

const defaultPageSize = 1000

// Account control bit for a disabled account. 512 is a plain enabled
// account, 514 a plain disabled one.
const (
	uacNormalAccount  = 0x0200
	uacAccountDisable = 0x0002
)

type Provider struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	BindDN   string `json:"bindDN"`
	Password string `json:"password"`
	BaseDN   string `json:"baseDN"`
	PageSize uint32 `json:"pageSize"`
	conn     *ldap.Conn
}

func FromJson(data []byte) (*Provider, error) {
	p := &Provider{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, err
	}
	if p.Port == 0 {
		p.Port = 636
	}
	if p.PageSize == 0 {
		p.PageSize = defaultPageSize
	}
	return p, nil
}

func New(host, bindDN, password, baseDN string) *Provider {
	return &Provider{
		Host:     host,
		Port:     636,
		BindDN:   bindDN,
		Password: password,
		BaseDN:   baseDN,
		PageSize: defaultPageSize,
	}
}

func (p *Provider) Connect() error {
	if p.conn != nil {
		return nil
	}
	conn, err := ldap.DialURL(fmt.Sprintf("ldaps://%s:%d", p.Host, p.Port))
	if err != nil {
		return fmt.Errorf("failed to dial ldap server: %w", err)
	}
	if err := conn.Bind(p.BindDN, p.Password); err != nil {
		conn.Close()
		return fmt.Errorf("failed to bind as %s: %w", p.BindDN, err)
	}
	p.conn = conn
	return nil
}

func (p *Provider) Close() error {
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}
