package utils

import (
	"log"
	"os"
	"strconv"
	"time"
)

type parseableEnv interface {
	string | int | bool | time.Duration
}

func parseEnv[V parseableEnv](envVar, envValue string) V {
	var out V
	switch t := any(&out).(type) {
	case *string:
		*t = envValue
	case *int:
		intValue, err := strconv.Atoi(envValue)
		if err != nil {
			log.Fatalf("environment variable %s is not an integer: '%s'", envVar, envValue)
		}
		*t = intValue
	case *bool:
		boolValue, err := strconv.ParseBool(envValue)
		if err != nil {
			log.Fatalf("environment variable %s is not a boolean: '%s'", envVar, envValue)
		}
		*t = boolValue
	case *time.Duration:
		durationValue, err := time.ParseDuration(envValue)
		if err != nil {
			log.Fatalf("environment variable %s is not a duration: '%s'", envVar, envValue)
		}
		*t = durationValue
	}
	return out
}

func GetEnv[V parseableEnv](envVar string, defaultValue V) V {
	envValue, ok := os.LookupEnv(envVar)
	if !ok || envValue == "" {
		return defaultValue
	}
	return parseEnv[V](envVar, envValue)
}

func GetRequiredEnv[V parseableEnv](envVar string) V {
	envValue, ok := os.LookupEnv(envVar)
	if !ok || envValue == "" {
		log.Fatalf("%s environment variable is required", envVar)
	}
	return parseEnv[V](envVar, envValue)
}
