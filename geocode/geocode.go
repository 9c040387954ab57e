package geocode

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"googlemaps.github.io/maps"

	"go-biomap/types"
)

// mapsClient is a singleton maps client instance.
var (
	mapsClient *maps.Client
	clientOnce sync.Once
)

// InitMapsClient initializes and returns a singleton Google Maps client.
func InitMapsClient() (*maps.Client, error) {
	var err error
	clientOnce.Do(func() {
		apiKey := os.Getenv("MAPS_CREDENTIALS")
		if apiKey == "" {
			err = fmt.Errorf("MAPS_CREDENTIALS environment variable not set")
			return
		}
		mapsClient, err = maps.NewClient(maps.WithAPIKey(apiKey))
		if err != nil {
			log.Fatalf("Failed to create maps client: %v", err)
		}
	})
	return mapsClient, err
}

// GeocodeAddress takes an address string and returns geocoding results.
func GeocodeAddress(address string) ([]maps.GeocodingResult, error) {
	client, err := InitMapsClient()
	if err != nil {
		return nil, err
	}

	req := &maps.GeocodingRequest{
		Address: address,
	}

	results, err := client.Geocode(context.Background(), req)
	if err != nil {
		return nil, err
	}

	return results, nil
}

// PlaceViewport resolves a place name to its recommended map viewport as
// a bounding box the bounded grid query can use.
func PlaceViewport(place string) (*types.BBox, error) {
	results, err := GeocodeAddress(place)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no geocode results for %q", place)
	}

	vp := results[0].Geometry.Viewport
	return &types.BBox{
		South: vp.SouthWest.Lat,
		West:  vp.SouthWest.Lng,
		North: vp.NorthEast.Lat,
		East:  vp.NorthEast.Lng,
	}, nil
}
