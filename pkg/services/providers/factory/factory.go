package factory

import (
	"context"
	"fmt"

	"github.com/de-tools/marketing-atlas/pkg/services/config"
	"github.com/de-tools/marketing-atlas/pkg/services/providers"
	"github.com/de-tools/marketing-atlas/pkg/services/providers/businessprofile"
	"github.com/de-tools/marketing-atlas/pkg/services/providers/facebook"
	"github.com/de-tools/marketing-atlas/pkg/services/providers/googleanalytics"
	"github.com/de-tools/marketing-atlas/pkg/services/providers/linkedin"
	"github.com/de-tools/marketing-atlas/pkg/services/providers/searchconsole"
	"github.com/de-tools/marketing-atlas/pkg/services/report"
	"github.com/de-tools/marketing-atlas/pkg/store/rest"
)

// BuildRegistry constructs one provider per credential profile and registers
// it under the profile name. Unknown profile names are rejected so a typo in
// the credentials file surfaces at startup, not at report time.
func BuildRegistry(ctx context.Context, credentials config.Registry, doer rest.Doer) (report.Registry, error) {
	profiles, err := credentials.GetProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list credential profiles: %w", err)
	}

	registry := report.NewRegistry()
	for _, name := range profiles {
		profile, err := credentials.GetProfile(ctx, name)
		if err != nil {
			return nil, err
		}

		provider, err := newProvider(profile, doer)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(name, provider); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func newProvider(profile config.Profile, doer rest.Doer) (providers.Provider, error) {
	switch profile.Name {
	case "facebook":
		client := newClient(profile, facebook.DefaultBaseURL, doer,
			rest.WithQuery("access_token", profile.AccessToken))
		return facebook.New(client, facebook.Config{PageID: profile.Key("page_id")}), nil

	case "linkedin":
		client := newClient(profile, linkedin.DefaultBaseURL, doer,
			rest.WithHeader("Authorization", "Bearer "+profile.AccessToken))
		return linkedin.New(client, linkedin.Config{OrganizationURN: profile.Key("org_urn")}), nil

	case "googleanalytics":
		client := newClient(profile, googleanalytics.DefaultBaseURL, doer,
			rest.WithHeader("Authorization", "Bearer "+profile.AccessToken))
		return googleanalytics.New(client, googleanalytics.Config{PropertyID: profile.Key("property_id")}), nil

	case "searchconsole":
		client := newClient(profile, searchconsole.DefaultBaseURL, doer,
			rest.WithHeader("Authorization", "Bearer "+profile.AccessToken))
		return searchconsole.New(client, searchconsole.Config{SiteURL: profile.Key("site_url")}), nil

	case "businessprofile":
		client := newClient(profile, businessprofile.DefaultBaseURL, doer,
			rest.WithHeader("Authorization", "Bearer "+profile.AccessToken))
		return businessprofile.New(client, businessprofile.Config{LocationID: profile.Key("location_id")}), nil

	default:
		return nil, fmt.Errorf("unknown provider profile %q", profile.Name)
	}
}

func newClient(profile config.Profile, defaultBaseURL string, doer rest.Doer, opts ...rest.Option) *rest.Client {
	baseURL := profile.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if doer != nil {
		opts = append(opts, rest.WithDoer(doer))
	}
	return rest.NewClient(baseURL, opts...)
}
