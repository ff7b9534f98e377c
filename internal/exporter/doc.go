// Package exporter materialises pipeline tables as durable artifacts: CSV
// checkpoints for every stage and an optional XLSX workbook for the reporting
// aggregate. Checkpoints are observability side effects; stage hand-off is in
// memory and never reads them back.
package exporter
