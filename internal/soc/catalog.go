package soc

import (
	"fmt"
	"strings"
)

// Scenario is a simulated attack the backend can replay on request.
type Scenario struct {
	// Key is the URL slug used with /api/simulate/{key}.
	Key         string
	Name        string
	Short       string
	Severity    Severity
	Description string
	Logs        []string
}

var scenarios = []Scenario{
	{
		Key:         "brute-force",
		Name:        "Brute Force Attack",
		Short:       "Brute Force",
		Severity:    SeverityHigh,
		Description: "Multiple failed login attempts detected from IP 192.168.1.100",
		Logs: []string{
			"Failed login attempt from 192.168.1.100 - user: admin",
			"Failed login attempt from 192.168.1.100 - user: root",
			"Failed login attempt from 192.168.1.100 - user: administrator",
			"AI/ML: Brute force pattern detected - 15 attempts in 2 minutes",
		},
	},
	{
		Key:         "insider-threat",
		Name:        "Insider Privilege Misuse",
		Short:       "Insider Threat",
		Severity:    SeverityMedium,
		Description: "Employee accessing sensitive files outside normal hours",
		Logs: []string{
			"User john.doe accessed /confidential/payroll.xlsx at 02:30 AM",
			"Unusual file access pattern detected for user john.doe",
			"AI/ML: Insider threat behavior pattern identified",
		},
	},
	{
		Key:         "data-exfiltration",
		Name:        "Data Exfiltration Attempt",
		Short:       "Data Theft",
		Severity:    SeverityHigh,
		Description: "Large data transfer to external server detected",
		Logs: []string{
			"Large file upload detected - 2.5GB to external.server.com",
			"USB device connected - copying sensitive files",
			"AI/ML: Data exfiltration pattern detected - anomalous data volume",
		},
	},
	{
		Key:         "malware",
		Name:        "Malware Indicators",
		Short:       "Malware",
		Severity:    SeverityHigh,
		Description: "Suspicious process behavior and network connections",
		Logs: []string{
			"Suspicious process detected - crypto_miner.exe",
			"Outbound connection to known malicious IP 45.33.32.156",
			"AI/ML: Malware signature match - 95% confidence",
		},
	},
}

// Scenarios returns the catalog in display order.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// ScenarioByKey looks up a scenario by its slug.
func ScenarioByKey(key string) (Scenario, bool) {
	for _, s := range scenarios {
		if s.Key == key {
			return s, true
		}
	}
	return Scenario{}, false
}

// ScenarioKeys returns every scenario slug in display order.
func ScenarioKeys() []string {
	keys := make([]string, len(scenarios))
	for i, s := range scenarios {
		keys[i] = s.Key
	}
	return keys
}

// LogSource picks the sensor a scenario log line is attributed to.
func LogSource(message string) string {
	if strings.Contains(message, "login") {
		return "FIREWALL"
	}
	return "ENDPOINT"
}

var friendlyDescriptions = map[string]string{
	"Brute Force Attack":        "🚫 Someone is trying to break into an account by guessing passwords repeatedly. This could be a hacker trying to steal login credentials.",
	"Insider Privilege Misuse":  "👤 An employee or insider is accessing files or systems they shouldn't have access to. This might be accidental or intentional data theft.",
	"Data Exfiltration Attempt": "📤 Large amounts of data are being copied or sent outside your network. This could be someone stealing sensitive company information.",
	"Malware Indicators":        "🦠 We found signs of malicious software (viruses) on your system. This could damage files or steal information if not stopped.",
}

// FriendlyDescription explains a threat type in plain language, falling back
// to the backend's own description for unrecognized types.
func FriendlyDescription(threatType, fallback string) string {
	if d, ok := friendlyDescriptions[threatType]; ok {
		return d
	}
	return fallback
}

var recommendedActions = map[string][]string{
	"Brute Force Attack":        {"Block Hacker's IP Address", "Lock Compromised Account", "Alert Security Team"},
	"Insider Privilege Misuse":  {"Disable Employee Account", "Notify HR Department", "Review File Access History"},
	"Data Exfiltration Attempt": {"Block Data Transfer", "Secure Sensitive Files", "Investigate User Activity"},
	"Malware Indicators":        {"Isolate Infected Computer", "Run Virus Scan", "Update Security Definitions"},
}

// DefaultActions are offered for threat types the catalog doesn't know.
var DefaultActions = []string{"Investigate Issue", "Block Access", "Alert Administrator"}

// RecommendedActions returns the response actions for a threat type. The
// result is a fresh slice.
func RecommendedActions(threatType string) []string {
	actions, ok := recommendedActions[threatType]
	if !ok {
		actions = DefaultActions
	}
	out := make([]string, len(actions))
	copy(out, actions)
	return out
}

var impacts = map[Severity]string{
	SeverityHigh:   "Could cause serious damage to your business - immediate action required",
	SeverityMedium: "May affect business operations - should be addressed soon",
	SeverityLow:    "Minor issue - monitor and review when convenient",
}

// Impact describes the business impact of a severity.
func Impact(s Severity) string {
	if text, ok := impacts[s]; ok {
		return text
	}
	return "Unknown impact level"
}

var actionLogs = map[string]string{
	"Block Hacker's IP Address":   "IP address blocked on firewall - threat neutralized",
	"Lock Compromised Account":    "User account locked and password reset required",
	"Alert Security Team":         "Security team notified via email and SMS alerts",
	"Disable Employee Account":    "Employee account disabled pending investigation",
	"Notify HR Department":        "HR department notified of potential insider threat",
	"Review File Access History":  "File access audit initiated for suspicious activity",
	"Block Data Transfer":         "External data transfer blocked - files quarantined",
	"Secure Sensitive Files":      "Sensitive files moved to secure vault with encryption",
	"Investigate User Activity":   "User activity investigation started - forensics team alerted",
	"Isolate Infected Computer":   "Computer isolated from network - malware contained",
	"Run Virus Scan":              "Full system antivirus scan initiated - estimated 15 minutes",
	"Update Security Definitions": "Security definitions updated - 1,247 new threat signatures added",
}

// ActionLogMessage is the audit line written when an action runs.
func ActionLogMessage(action string) string {
	if msg, ok := actionLogs[action]; ok {
		return msg
	}
	return fmt.Sprintf("Security action executed: %s", action)
}

var blockingKeywords = []string{"block", "disable", "isolate", "lock"}

// IsBlockingAction reports whether running action resolves the alert it
// targets.
func IsBlockingAction(action string) bool {
	lower := strings.ToLower(action)
	for _, kw := range blockingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// NormalTraffic is the pool of routine log lines a backend emits between
// incidents.
var NormalTraffic = []string{
	"✅ User login successful - jane.smith from office network",
	"🔒 Firewall blocked suspicious port scan from 203.45.67.89",
	"📁 File sync completed - documents folder (245 files)",
	"🌐 Outbound HTTPS connection allowed to microsoft.com",
	"🛡️ Antivirus scan completed - no threats found (15,432 files checked)",
	"💾 Backup process initiated - 2.3GB data secured",
	"🔐 VPN connection established - remote worker authenticated",
	"📊 System health check passed - all services running normally",
	"🔍 Network monitoring active - 1,247 connections tracked",
	"⚡ Security definitions updated - 45,231 new signatures added",
	"👤 User logout detected - session terminated safely",
	"🔄 Log rotation completed - archived 500MB of old logs",
}

// LogEmoji tags a log line by what it mentions. First match wins.
func LogEmoji(message string) string {
	switch {
	case strings.Contains(message, "Failed login") || strings.Contains(message, "Brute force"):
		return "🔐"
	case strings.Contains(message, "Malware") || strings.Contains(message, "virus"):
		return "🦠"
	case strings.Contains(message, "Data") || strings.Contains(message, "transfer"):
		return "📤"
	case strings.Contains(message, "User") || strings.Contains(message, "access"):
		return "👤"
	case strings.Contains(message, "Block") || strings.Contains(message, "response"):
		return "⚙️"
	default:
		return "📊"
	}
}
