package config

import "errors"

var (
	ErrKeyNotFound    = errors.New("config key not found")
	ErrLevelNotFound  = errors.New("config level not found")
	ErrLevelCollision = errors.New("config level already in chain")
	ErrType           = errors.New("config value has unexpected type")
)
