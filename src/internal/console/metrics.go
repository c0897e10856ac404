package console

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

var (
	metricLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admin_console",
		Name:      "settings_loads_total",
		Help:      "Settings loads from the remote API by result.",
	}, []string{"result"})
	metricSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admin_console",
		Name:      "settings_saves_total",
		Help:      "Settings saves by result (success, error, rejected).",
	}, []string{"result"})
	metricBackupOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admin_console",
		Name:      "backup_operations_total",
		Help:      "Backup create, restore and delete calls by result.",
	}, []string{"operation", "result"})
	metricDirty = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "admin_console",
		Name:      "settings_dirty",
		Help:      "1 while the console holds unsaved edits.",
	})
)

func resultLabel(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}

func recordDirty(dirty bool) {
	if dirty {
		metricDirty.Set(1)
	} else {
		metricDirty.Set(0)
	}
}
