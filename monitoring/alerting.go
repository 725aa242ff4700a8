// Package monitoring provides alerting on backend health for the RSS feed frontend
package monitoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// AlertSeverity represents the severity level of an alert
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// AlertType represents the type of alert
type AlertType string

const (
	AlertTypeBackendErrorRate   AlertType = "backend_error_rate"
	AlertTypeBackendUnreachable AlertType = "backend_unreachable"
)

// Alert represents an alert
type Alert struct {
	ID          string                 `json:"id"`
	Type        AlertType              `json:"type"`
	Severity    AlertSeverity          `json:"severity"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Timestamp   time.Time              `json:"timestamp"`
	Labels      map[string]string      `json:"labels"`
	Annotations map[string]interface{} `json:"annotations"`
	Resolved    bool                   `json:"resolved"`
	ResolvedAt  *time.Time             `json:"resolved_at,omitempty"`
}

// BackendWindow holds the backend calls observed since the previous evaluation
type BackendWindow struct {
	Calls    int64
	Failures int64
}

// FailureRate returns the share of failed calls in the window
func (w BackendWindow) FailureRate() float64 {
	if w.Calls == 0 {
		return 0
	}
	return float64(w.Failures) / float64(w.Calls)
}

// AlertRule defines a rule for generating alerts
type AlertRule struct {
	Name        string
	Type        AlertType
	Severity    AlertSeverity
	Condition   func(BackendWindow) bool
	Title       string
	Description string
	Labels      map[string]string
	Enabled     bool
}

// Notifier interface for sending alert notifications
type Notifier interface {
	Send(alert *Alert) error
	Name() string
}

// LogNotifier sends alerts to the log
type LogNotifier struct {
	logger *logrus.Logger
}

// NewLogNotifier creates a new log notifier
func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Name() string {
	return "log"
}

func (n *LogNotifier) Send(alert *Alert) error {
	level := logrus.InfoLevel
	switch alert.Severity {
	case SeverityHigh:
		level = logrus.WarnLevel
	case SeverityCritical:
		level = logrus.ErrorLevel
	}

	n.logger.WithFields(logrus.Fields{
		"alert_id":    alert.ID,
		"alert_type":  alert.Type,
		"severity":    alert.Severity,
		"labels":      alert.Labels,
		"annotations": alert.Annotations,
	}).Log(level, fmt.Sprintf("ALERT: %s - %s", alert.Title, alert.Description))

	return nil
}

// AlertManager evaluates alert rules against backend call totals and notifies on changes
type AlertManager struct {
	alerts    map[string]*Alert
	mutex     sync.RWMutex
	logger    *logrus.Logger
	rules     []AlertRule
	notifiers []Notifier
	totals    func() (int64, int64)
	last      BackendWindow
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewAlertManager creates an alert manager evaluating its rules every interval.
// A non-positive interval disables the background loop.
func NewAlertManager(logger *logrus.Logger, interval time.Duration) *AlertManager {
	ctx, cancel := context.WithCancel(context.Background())

	am := &AlertManager{
		alerts:    make(map[string]*Alert),
		logger:    logger,
		rules:     getDefaultAlertRules(),
		notifiers: []Notifier{NewLogNotifier(logger)},
		totals:    BackendCallTotals,
		ctx:       ctx,
		cancel:    cancel,
	}
	am.last.Calls, am.last.Failures = am.totals()

	if interval > 0 {
		go am.evaluateRules(interval)
	}

	return am
}

// getDefaultAlertRules returns default alert rules for the backend connection
func getDefaultAlertRules() []AlertRule {
	return []AlertRule{
		{
			Name:     "High Backend Failure Rate",
			Type:     AlertTypeBackendErrorRate,
			Severity: SeverityHigh,
			Condition: func(w BackendWindow) bool {
				return w.Calls >= 5 && w.FailureRate() >= 0.5
			},
			Title:       "High RSS backend failure rate detected",
			Description: "At least half of the recent calls to the RSS backend failed",
			Labels:      map[string]string{"service": "rss-feed-frontend"},
			Enabled:     true,
		},
		{
			Name:     "Backend Unreachable",
			Type:     AlertTypeBackendUnreachable,
			Severity: SeverityCritical,
			Condition: func(w BackendWindow) bool {
				return w.Calls > 0 && w.Failures == w.Calls
			},
			Title:       "RSS backend unreachable",
			Description: "Every call to the RSS backend failed since the last evaluation",
			Labels:      map[string]string{"service": "rss-feed-frontend"},
			Enabled:     true,
		},
	}
}

// evaluateRules runs the alert evaluation loop
func (am *AlertManager) evaluateRules(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-am.ctx.Done():
			return
		case <-ticker.C:
			am.evaluateAllRules()
		}
	}
}

// evaluateAllRules evaluates all enabled rules over the calls made since the last run
func (am *AlertManager) evaluateAllRules() {
	calls, failures := am.totals()

	am.mutex.Lock()
	window := BackendWindow{Calls: calls - am.last.Calls, Failures: failures - am.last.Failures}
	am.last = BackendWindow{Calls: calls, Failures: failures}
	rules := make([]AlertRule, len(am.rules))
	copy(rules, am.rules)
	am.mutex.Unlock()

	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		if rule.Condition(window) {
			am.triggerAlert(rule, window)
		} else {
			am.resolveType(rule.Type)
		}
	}
}

// triggerAlert creates and sends an alert unless one of the same type is still active
func (am *AlertManager) triggerAlert(rule AlertRule, window BackendWindow) {
	alert := &Alert{
		ID:          fmt.Sprintf("%s-%d", rule.Type, time.Now().UnixNano()),
		Type:        rule.Type,
		Severity:    rule.Severity,
		Title:       rule.Title,
		Description: rule.Description,
		Timestamp:   time.Now(),
		Labels:      rule.Labels,
		Annotations: map[string]interface{}{
			"calls":        window.Calls,
			"failures":     window.Failures,
			"failure_rate": fmt.Sprintf("%.2f", window.FailureRate()),
		},
	}

	am.mutex.Lock()
	for _, existing := range am.alerts {
		if existing.Type == rule.Type && !existing.Resolved {
			am.mutex.Unlock()
			return
		}
	}
	am.alerts[alert.ID] = alert
	am.mutex.Unlock()

	am.sendNotifications(alert)
}

// resolveType resolves every active alert of the given type
func (am *AlertManager) resolveType(alertType AlertType) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	for id, alert := range am.alerts {
		if alert.Type == alertType && !alert.Resolved {
			now := time.Now()
			alert.Resolved = true
			alert.ResolvedAt = &now

			am.logger.WithFields(logrus.Fields{
				"alert_id": id,
				"type":     alert.Type,
			}).Info("Alert resolved")
		}
	}
}

// sendNotifications sends the alert to all notifiers
func (am *AlertManager) sendNotifications(alert *Alert) {
	am.mutex.RLock()
	notifiers := append([]Notifier(nil), am.notifiers...)
	am.mutex.RUnlock()

	for _, notifier := range notifiers {
		if err := notifier.Send(alert); err != nil {
			am.logger.WithError(err).WithField("notifier", notifier.Name()).Error("Failed to send alert notification")
		}
	}
}

// GetActiveAlerts returns all active (unresolved) alerts
func (am *AlertManager) GetActiveAlerts() []*Alert {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	var activeAlerts []*Alert
	for _, alert := range am.alerts {
		if !alert.Resolved {
			activeAlerts = append(activeAlerts, alert)
		}
	}

	return activeAlerts
}

// AddNotifier adds a new notifier
func (am *AlertManager) AddNotifier(notifier Notifier) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	am.notifiers = append(am.notifiers, notifier)
}

// Stop stops the alert manager
func (am *AlertManager) Stop() {
	am.cancel()
}
