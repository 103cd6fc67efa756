package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterGormTracing attaches the otelgorm plugin so every repository
// call emits a db span under the surrounding request span. Query variables
// are kept out of span attributes; ledger rows carry operator IDs and
// sale amounts that do not belong in a trace backend.
func RegisterGormTracing(db *gorm.DB, dbName string, logger *zap.Logger) error {
	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName(dbName),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return err
	}
	logger.Info("Database tracing enabled", zap.String("db_name", dbName))
	return nil
}
