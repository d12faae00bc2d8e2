package config

import "errors"

var (
	ErrInvalidStorageConfigs = errors.New("invalid storage configs")
	ErrInvalidAdapterConfigs = errors.New("invalid server adapter configs")
	ErrInvalidWorkerConfigs  = errors.New("invalid worker configs")
	ErrInvalidServerConfigs  = errors.New("invalid server configs")
	ErrInvalidAppConfigs     = errors.New("invalid app configs")
)
