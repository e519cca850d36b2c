package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	Spatial SpatialConfig
}

type ServerConfig struct {
	Port string
}

type DBConfig struct {
	User     string
	Password string
	DBName   string
	SSLMode  string
	Host     string
	Port     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SpatialConfig selects and sizes the in-memory spatial index. Bounds are
// in degrees, longitude on x and latitude on y; the max edges are exclusive.
type SpatialConfig struct {
	Technique        string  // "quadtree", "rtree", "geohash"
	MinLon           float64
	MinLat           float64
	MaxLon           float64
	MaxLat           float64
	Capacity         int     // points per quadtree leaf before it splits
	MaxDepth         int     // subdivision limit for crowded regions
	GeohashPrecision uint    // cell size for the geohash technique
	SearchRadiusKm   float64 // starting radius for nearest-vehicle searches
	MaxRadiusKm      float64 // give up once the search radius grows past this
}

var Cfg *Config

func InitConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("spatial.technique", "quadtree")
	viper.SetDefault("spatial.minlon", -180.0)
	viper.SetDefault("spatial.minlat", -90.0)
	viper.SetDefault("spatial.maxlon", 180.0)
	viper.SetDefault("spatial.maxlat", 90.0)
	viper.SetDefault("spatial.capacity", 16)
	viper.SetDefault("spatial.maxdepth", 16)
	viper.SetDefault("spatial.geohashprecision", 6)
	viper.SetDefault("spatial.searchradiuskm", 1.0)
	viper.SetDefault("spatial.maxradiuskm", 50.0)

	err := viper.ReadInConfig()
	if err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	err = viper.Unmarshal(&Cfg)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
