// Package checklog emits one record per check result and one per event, to
// the structured logger and optionally to a CSV file.
package checklog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/hostmon/internal/domain"
)

type EventType string

const (
	HostCheck    EventType = "HOST_CHECK"
	ServiceCheck EventType = "SERVICE_CHECK"
	Alert        EventType = "ALERT"
	Recovery     EventType = "RECOVERY"
)

type Record struct {
	Timestamp   time.Time
	EventType   EventType
	TargetName  string
	Address     string
	ServiceName string // SERVICE only
	Port        int    // SERVICE only
	Status      domain.Status
	Latency     *time.Duration
	Detail      string
}

func FromResult(r domain.CheckResult) Record {
	et := HostCheck
	if r.Target.Kind == domain.KindService {
		et = ServiceCheck
	}
	return Record{
		Timestamp:   r.ObservedAt,
		EventType:   et,
		TargetName:  r.Target.Name,
		Address:     r.Target.Address,
		ServiceName: r.Target.Service,
		Port:        r.Target.Port,
		Status:      r.Status(),
		Latency:     r.Latency,
		Detail:      r.Detail,
	}
}

func FromEvent(e domain.Event) Record {
	et := Alert
	if e.Kind == domain.EventRecovery {
		et = Recovery
	}
	return Record{
		Timestamp:   e.Timestamp,
		EventType:   et,
		TargetName:  e.Target.Name,
		Address:     e.Target.Address,
		ServiceName: e.Target.Service,
		Port:        e.Target.Port,
		Status:      e.To,
		Detail:      e.Detail,
	}
}

var header = []string{"timestamp", "event", "name", "address", "service", "port", "status", "latency_ms", "detail"}

// Log is safe for concurrent use.
type Log struct {
	logger  *zap.Logger
	csvPath string
	mu      sync.Mutex
}

// New returns a Log writing to logger and, when csvPath is non-empty, to that
// CSV file.
func New(logger *zap.Logger, csvPath string) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger, csvPath: csvPath}
}

// Write never fails the caller; CSV problems are logged.
func (l *Log) Write(rec Record) {
	fields := []zap.Field{
		zap.String("event_type", string(rec.EventType)),
		zap.String("target", rec.TargetName),
		zap.String("address", rec.Address),
		zap.String("status", string(rec.Status)),
		zap.String("detail", rec.Detail),
		zap.Time("observed_at", rec.Timestamp),
	}
	if rec.ServiceName != "" {
		fields = append(fields, zap.String("service", rec.ServiceName), zap.Int("port", rec.Port))
	}
	if rec.Latency != nil {
		fields = append(fields, zap.Duration("latency", *rec.Latency))
	}
	switch rec.EventType {
	case Alert:
		l.logger.Warn("alert", fields...)
	case Recovery:
		l.logger.Info("recovery", fields...)
	case ServiceCheck:
		l.logger.Info("service_check", fields...)
	default:
		l.logger.Info("host_check", fields...)
	}

	if l.csvPath == "" {
		return
	}
	if err := l.appendCSV(rec); err != nil {
		l.logger.Warn("check_log_write_error", zap.String("path", l.csvPath), zap.Error(err))
	}
}

func (l *Log) appendCSV(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.csvPath), 0o755); err != nil {
		return err
	}
	_, statErr := os.Stat(l.csvPath)
	isNew := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(l.csvPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	port := ""
	if rec.Port != 0 {
		port = strconv.Itoa(rec.Port)
	}
	latency := ""
	if rec.Latency != nil {
		latency = fmt.Sprintf("%.3f", float64(*rec.Latency)/float64(time.Millisecond))
	}
	if err := w.Write([]string{
		rec.Timestamp.UTC().Format(time.RFC3339Nano),
		string(rec.EventType),
		rec.TargetName,
		rec.Address,
		rec.ServiceName,
		port,
		string(rec.Status),
		latency,
		rec.Detail,
	}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
