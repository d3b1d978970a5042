package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"
)

// Profile holds the credential material for one provider backend. The values
// are opaque to the rest of the system; providers receive them at construction
// and never mutate them.
type Profile struct {
	Name        string
	BaseURL     string
	AccessToken string
	Keys        map[string]string
}

// Key returns a provider-specific credential value, e.g. page_id or org_urn.
func (p Profile) Key(name string) string {
	return p.Keys[name]
}

// Registry reads provider credential profiles from an ini file with one
// section per provider.
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (Profile, error)
}

type credRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &credRegistry{cfg: cfg}, nil
}

func (cr *credRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *credRegistry) GetProfile(_ context.Context, name string) (Profile, error) {
	if !cr.cfg.HasSection(name) {
		return Profile{}, fmt.Errorf("profile %s not found", name)
	}
	section := cr.cfg.Section(name)

	profile := Profile{
		Name:        name,
		BaseURL:     section.Key("base_url").String(),
		AccessToken: section.Key("access_token").String(),
		Keys:        map[string]string{},
	}
	for _, key := range section.Keys() {
		profile.Keys[key.Name()] = key.String()
	}
	return profile, nil
}
