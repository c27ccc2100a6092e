package directory

import (
	"encoding/json"
	"errors"

	"github.com/apolloveritas/dirsync/directory/google"
	"github.com/apolloveritas/dirsync/directory/jsonfile"
	"github.com/apolloveritas/dirsync/directory/ldap"
)

func Load(jsonBytes []byte) (Provider, error) {

	loader := struct {
		Provider      string
		Configuration *json.RawMessage
	}{}

	err := json.Unmarshal(jsonBytes, &loader)
	if err != nil {
		return nil, err
	}

	if loader.Configuration == nil {
		return nil, errors.New("directory provider '" + loader.Provider + "' has no configuration")
	}

	switch loader.Provider {
	case ldap.ProviderKey:
		return ldap.FromJson(*loader.Configuration)
	case google.ProviderKey:
		return google.FromJson(*loader.Configuration)
	case jsonfile.ProviderKey:
		return jsonfile.FromJson(*loader.Configuration)
	}

	return nil, errors.New("unable to load directory provider '" + loader.Provider + "'")
}
