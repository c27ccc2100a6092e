package google

import (
	"context"

	"google.golang.org/api/groupssettings/v1"

	"github.com/apolloveritas/dirsync/dirsync"
)

// Settings presets for the three group shapes the district uses. The
// groupssettings API models booleans as strings.
var settingsPresets = map[dirsync.GroupKind]map[string]string{
	dirsync.GroupKindSecurity: {
		"whoCanJoin":                 "INVITED_CAN_JOIN",
		"whoCanViewMembership":       "ALL_OWNERS_CAN_VIEW",
		"whoCanViewGroup":            "ALL_OWNERS_CAN_VIEW",
		"whoCanPostMessage":          "ALL_OWNERS_CAN_POST",
		"showInGroupDirectory":       "false",
		"includeInGlobalAddressList": "false",
		"isArchived":                 "false",
		"archiveOnly":                "false",
	},
	dirsync.GroupKindInternalList: {
		"whoCanViewMembership":       "ALL_IN_DOMAIN_CAN_VIEW",
		"whoCanViewGroup":            "ALL_MEMBERS_CAN_VIEW",
		"whoCanPostMessage":          "ALL_IN_DOMAIN_CAN_POST",
		"whoCanContactOwner":         "ALL_IN_DOMAIN_CAN_CONTACT",
		"whoCanDiscoverGroup":        "ALL_IN_DOMAIN_CAN_DISCOVER",
		"showInGroupDirectory":       "true",
		"includeInGlobalAddressList": "true",
		"isArchived":                 "false",
		"archiveOnly":                "false",
	},
	dirsync.GroupKindPublicDistribution: {
		"whoCanViewMembership":       "ALL_IN_DOMAIN_CAN_VIEW",
		"whoCanViewGroup":            "ALL_MEMBERS_CAN_VIEW",
		"whoCanPostMessage":          "ANYONE_CAN_POST",
		"whoCanContactOwner":         "ALL_IN_DOMAIN_CAN_CONTACT",
		"whoCanDiscoverGroup":        "ALL_IN_DOMAIN_CAN_DISCOVER",
		"showInGroupDirectory":       "true",
		"includeInGlobalAddressList": "true",
		"isArchived":                 "false",
		"archiveOnly":                "false",
	},
}

func settingsFields(g *groupssettings.Groups) map[string]*string {
	return map[string]*string{
		"whoCanJoin":                 &g.WhoCanJoin,
		"whoCanViewMembership":       &g.WhoCanViewMembership,
		"whoCanViewGroup":            &g.WhoCanViewGroup,
		"whoCanPostMessage":          &g.WhoCanPostMessage,
		"whoCanContactOwner":         &g.WhoCanContactOwner,
		"whoCanDiscoverGroup":        &g.WhoCanDiscoverGroup,
		"showInGroupDirectory":       &g.ShowInGroupDirectory,
		"includeInGlobalAddressList": &g.IncludeInGlobalAddressList,
		"isArchived":                 &g.IsArchived,
		"archiveOnly":                &g.ArchiveOnly,
	}
}

// applyPreset overlays a preset onto the current settings and reports
// whether anything actually changed.
func applyPreset(current *groupssettings.Groups, preset map[string]string) bool {
	changed := false
	fields := settingsFields(current)
	for key, want := range preset {
		field, ok := fields[key]
		if !ok {
			continue
		}
		if *field != want {
			*field = want
			changed = true
		}
	}
	return changed
}

// ApplySettings holds a group's settings to the preset for its kind,
// patching only when the live settings differ.
func (p *Provider) ApplySettings(ctx context.Context, groupMail string, kind dirsync.GroupKind) error {
	preset, ok := settingsPresets[kind]
	if !ok {
		return nil
	}
	if err := p.Connect(); err != nil {
		return err
	}
	current, err := p.settings.Groups.Get(groupMail).Context(ctx).Do()
	if err != nil {
		return err
	}
	if !applyPreset(current, preset) {
		return nil
	}
	_, err = p.settings.Groups.Patch(groupMail, current).Context(ctx).Do()
	return err
}

// HideFromAddressList removes the group from the global address list.
func (p *Provider) HideFromAddressList(ctx context.Context, groupMail string) error {
	if err := p.Connect(); err != nil {
		return err
	}
	patch := &groupssettings.Groups{IncludeInGlobalAddressList: "false"}
	_, err := p.settings.Groups.Patch(groupMail, patch).Context(ctx).Do()
	return err
}
