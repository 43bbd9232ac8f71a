// Package services holds the application logic behind the driving ports.
//
// CrawlOrchestrator walks an export with a worker pool and stores the result,
// TimetableService answers queries over stored runs, SettingsService maps
// config keys onto domain.CrawlSettings and Scheduler repeats crawls on an
// interval. Everything outside the core is reached through driven ports.
package services
