package fiberlog

import "github.com/sirupsen/logrus"

// Config - настройки логирования http запросов
type Config struct {
	Logger *logrus.Logger
	Tags   []string
}

// ConfigDefault используется, если конфигурация не передана
var ConfigDefault = Config{
	Logger: nil,
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
	},
}
