package app

import (
	"time"

	"github.com/fitcrew/memberd/internal/app/api/server"
	"github.com/fitcrew/memberd/internal/app/service/expiring"
	"github.com/fitcrew/memberd/internal/app/service/lifecycle"
	"github.com/fitcrew/memberd/internal/app/service/reporting"
	"github.com/fitcrew/memberd/internal/platform/db"
	"github.com/fitcrew/memberd/pkg/config"
	"github.com/fitcrew/memberd/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	lifecycle.Module,
	expiring.Module,
	reporting.Module,
)
