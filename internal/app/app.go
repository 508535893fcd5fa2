package app

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/orderloader/internal/config"
	"github.com/Additional-Code/orderloader/internal/database"
	"github.com/Additional-Code/orderloader/internal/ingest"
	"github.com/Additional-Code/orderloader/internal/loader"
	"github.com/Additional-Code/orderloader/internal/logger"
	"github.com/Additional-Code/orderloader/internal/metrics"
	"github.com/Additional-Code/orderloader/internal/observability"
	repositoryorder "github.com/Additional-Code/orderloader/internal/repository/order"
)

// Core provides the foundational modules shared across commands.
var Core = fx.Options(
	config.Module,
	logger.Module,
	database.Module,
	metrics.Module,
	observability.Module,
	repositoryorder.Module,
	loader.Module,
	ingest.Module,
)
