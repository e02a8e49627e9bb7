package resource

import (
	"fmt"
	"runtime"
	"time"

	"PagRecon/internal/logger"
	"PagRecon/internal/serviceiface"
)

// ResourceMonitor periodically logs process health (goroutines, heap) so a
// stuck upload or a leaking handler shows up in the audit log.
type ResourceMonitor struct {
	interval time.Duration
	stopChan chan struct{}
}

func NewResourceMonitorService(cfg map[string]interface{}) serviceiface.Service {
	interval := 60 * time.Second
	if cfg != nil {
		if val, ok := cfg["heartbeat_interval"]; ok {
			switch v := val.(type) {
			case string:
				if d, err := time.ParseDuration(v); err == nil {
					interval = d
				}
			case int:
				interval = time.Duration(v) * time.Second
			case float64:
				interval = time.Duration(v) * time.Second
			}
		}
	}
	return &ResourceMonitor{
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (rm *ResourceMonitor) Name() string { return "resourcemonitor" }

func (rm *ResourceMonitor) Start() error {
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("ResourceMonitor started")
	}
	go rm.heartbeatLoop()
	return nil
}

func (rm *ResourceMonitor) Stop() error {
	close(rm.stopChan)
	return nil
}

func (rm *ResourceMonitor) heartbeatLoop() {
	ticker := time.NewTicker(rm.interval)
	defer ticker.Stop()
	for {
		select {
		case <-rm.stopChan:
			return
		case <-ticker.C:
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			msg := fmt.Sprintf("[Heartbeat] goroutines=%d heap=%dKB", runtime.NumGoroutine(), ms.HeapAlloc/1024)
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(msg)
			}
		}
	}
}
