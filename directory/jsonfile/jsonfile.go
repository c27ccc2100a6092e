package jsonfile

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/apolloveritas/dirsync/dirsync"
)

const ProviderKey = "jsonfile"

// Provider reads directory snapshots from JSON fixture files. Mutations only
// touch the in-memory copy, which makes it useful for rehearsing a sync
// against captured data and for tests.
type Provider struct {
	dataDirectory string

	mu     sync.Mutex
	users  []dirsync.User
	groups []dirsync.Group
	loaded bool
}

func FromJson(data []byte) (*Provider, error) {
	cfg := struct {
		DataDirectory string `json:"dataDirectory"`
	}{}

	if err := json.Unmarshal(data, &cfg); err == nil {
		return New(cfg.DataDirectory), nil
	} else {
		return nil, err
	}
}

func New(dataDirectory string) *Provider {
	return &Provider{dataDirectory: dataDirectory}
}

func (p *Provider) filePath(filename string) string {
	return strings.TrimRight(p.dataDirectory, "/") + "/" + filename + ".json"
}

func (p *Provider) fileData(filePath string) []byte {
	bytes, _ := os.ReadFile(filePath)
	return bytes
}

func (p *Provider) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load()
}

func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users = nil
	p.groups = nil
	p.loaded = false
	return nil
}
