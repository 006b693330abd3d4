package geo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"github.com/bitmark-inc/triage-api/schema"
)

var (
	ErrNoGeoInfoFound = fmt.Errorf("no geo information found")
	ErrNoCoordinates  = fmt.Errorf("location has no gps coordinates")
)

// AddressResolver turns a GPS fix into a readable address
type AddressResolver interface {
	ResolveAddress(context.Context, schema.Location) (string, error)
}

type MultipleResolverErrors struct {
	errors []error
}

func (e *MultipleResolverErrors) Error() string {
	errorStrings := make([]string, len(e.errors))
	for i, err := range e.errors {
		errorStrings[i] = fmt.Sprintf("#%d: %s", i, err.Error())
	}
	return strings.Join(errorStrings, "\n")
}

func NewMultipleResolverErrors(errors []error) *MultipleResolverErrors {
	return &MultipleResolverErrors{
		errors: errors,
	}
}

type GeocodingAddressResolver struct {
	client *maps.Client
}

func NewGeocodingAddressResolver(client *maps.Client) *GeocodingAddressResolver {
	return &GeocodingAddressResolver{
		client: client,
	}
}

func (g *GeocodingAddressResolver) ResolveAddress(ctx context.Context, loc schema.Location) (string, error) {
	if !loc.HasGPS() {
		return "", ErrNoCoordinates
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	geos, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{
			Lat: *loc.Lat,
			Lng: *loc.Lng,
		},
		Language: "en",
	})
	if nil != err {
		return "", err
	}

	if len(geos) == 0 {
		return "", ErrNoGeoInfoFound
	}

	if geos[0].FormattedAddress != "" {
		return geos[0].FormattedAddress, nil
	}

	// fall back to the administrative areas, which map to LGA and state here
	var level1, level2 string
	for _, a := range geos[0].AddressComponents {
		if len(a.Types) > 0 {
			switch a.Types[0] {
			case "administrative_area_level_1":
				level1 = a.LongName
			case "administrative_area_level_2":
				level2 = a.LongName
			}
		}
	}
	if level1 == "" && level2 == "" {
		return "", ErrNoGeoInfoFound
	}
	if level2 == "" {
		return level1, nil
	}
	return fmt.Sprintf("%s, %s", level2, level1), nil
}

// ManualAddressResolver renders the manually entered part of a location
type ManualAddressResolver struct{}

func (ManualAddressResolver) ResolveAddress(_ context.Context, loc schema.Location) (string, error) {
	if !loc.HasManual() {
		return "", ErrNoGeoInfoFound
	}
	return loc.Describe(), nil
}

type MultipleAddressResolver struct {
	resolvers []AddressResolver
}

func NewMultipleAddressResolver(resolvers ...AddressResolver) *MultipleAddressResolver {
	return &MultipleAddressResolver{
		resolvers: resolvers,
	}
}

func (r *MultipleAddressResolver) ResolveAddress(ctx context.Context, loc schema.Location) (string, error) {
	var errors []error
	for _, resolver := range r.resolvers {
		result, err := resolver.ResolveAddress(ctx, loc)
		if err != nil {
			errors = append(errors, err)
		} else {
			return result, nil
		}
	}

	return "", NewMultipleResolverErrors(errors)
}
