package engine

import (
	"database/sql/driver"
	"fmt"
	"sync"

	"github.com/viant/geobench/geo"
	sqlite "modernc.org/sqlite"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterGeoFunctions registers geo_haversine and geo_geohash with the
// driver. Only connections opened after the first call see them; Open calls
// it for you.
func RegisterGeoFunctions() error {
	registerOnce.Do(func() {
		if err := sqlite.RegisterDeterministicScalarFunction("geo_haversine", 4, geoHaversineImpl); err != nil {
			registerErr = fmt.Errorf("engine: register geo_haversine: %w", err)
			return
		}
		if err := sqlite.RegisterDeterministicScalarFunction("geo_geohash", 3, geoGeohashImpl); err != nil {
			registerErr = fmt.Errorf("engine: register geo_geohash: %w", err)
		}
	})
	return registerErr
}

func asFloat(name string, arg driver.Value) (float64, bool, error) {
	switch v := arg.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return v, true, nil
	case int64:
		return float64(v), true, nil
	default:
		return 0, false, fmt.Errorf("%s: unsupported argument type %T; want REAL", name, arg)
	}
}

// geo_haversine(lat1, lon1, lat2, lon2) returns metres; NULL in, NULL out.
func geoHaversineImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 4 {
		return nil, fmt.Errorf("geo_haversine: expected 4 arguments, got %d", len(args))
	}
	var coords [4]float64
	for i, arg := range args {
		v, ok, err := asFloat("geo_haversine", arg)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		coords[i] = v
	}
	return geo.Haversine(coords[0], coords[1], coords[2], coords[3]), nil
}

// geo_geohash(lat, lon, precision) returns the base32 cell of the point.
func geoGeohashImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("geo_geohash: expected 3 arguments, got %d", len(args))
	}
	lat, ok, err := asFloat("geo_geohash", args[0])
	if err != nil || !ok {
		return nil, err
	}
	lon, ok, err := asFloat("geo_geohash", args[1])
	if err != nil || !ok {
		return nil, err
	}
	precision, ok := args[2].(int64)
	if !ok {
		return nil, fmt.Errorf("geo_geohash: unsupported precision type %T; want INTEGER", args[2])
	}
	if precision < 1 || precision > geo.MaxGeohashPrecision {
		return nil, fmt.Errorf("geo_geohash: precision %d out of range 1..%d", precision, geo.MaxGeohashPrecision)
	}
	return geo.Geohash(geo.Point{Lat: lat, Lon: lon}, int(precision)), nil
}
