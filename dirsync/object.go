package dirsync

import "strings"

// ParentPath derives the container path of an object from its distinguished
// identifier by stripping the leading CN component. For identifiers that do
// not carry a CN prefix (cloud org unit paths) the identifier's own path is
// returned unchanged.
func ParentPath(id, shortName string) string {
	prefix := "CN=" + shortName + ","
	if len(id) >= len(prefix) && strings.EqualFold(id[:len(prefix)], prefix) {
		return id[len(prefix):]
	}
	if strings.HasPrefix(strings.ToUpper(id), "CN=") {
		if idx := strings.Index(id, ","); idx >= 0 {
			return id[idx+1:]
		}
		return ""
	}
	return id
}

// OrganizationalUnits returns the OU component values of a container path,
// leaf first, e.g. "OU=Grade1,OU=Students,DC=district,DC=org" yields
// ["Grade1", "Students"].
func OrganizationalUnits(path string) []string {
	var units []string
	for _, part := range strings.Split(path, ",") {
		part = strings.TrimSpace(part)
		if len(part) > 3 && strings.EqualFold(part[:3], "OU=") {
			units = append(units, part[3:])
		}
	}
	return units
}
