package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"fleet-tracking-system/config"
	"fleet-tracking-system/models"

	"github.com/go-redis/redis/v8"
)

var RedisClient *redis.Client

// InitRedis connects the shared Redis client using the loaded config.
func InitRedis() error {
	cfg := config.Cfg.Redis
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	log.Println("Connected to Redis successfully.")
	return nil
}

// VehicleKey is the Redis set that holds available vehicles for a geohash cell.
func VehicleKey(hash string) string {
	return fmt.Sprintf("vehicles:%s", hash)
}

// AddVehicle puts a vehicle into the set for its geohash cell. The sets are
// a warm-start cache, the spatial index remains the source of truth, so
// failures here are not propagated.
func AddVehicle(ctx context.Context, v models.Vehicle) {
	if RedisClient == nil || v.Geohash == "" {
		return
	}
	data, _ := json.Marshal(v)
	RedisClient.SAdd(ctx, VehicleKey(v.Geohash), data)
}

// RemoveVehicle drops the vehicle from the set for its geohash cell. The
// stored member is the vehicle's JSON, so the fields must match what
// AddVehicle wrote.
func RemoveVehicle(ctx context.Context, v models.Vehicle) {
	if RedisClient == nil || v.Geohash == "" {
		return
	}
	data, _ := json.Marshal(v)
	RedisClient.SRem(ctx, VehicleKey(v.Geohash), data)
}
