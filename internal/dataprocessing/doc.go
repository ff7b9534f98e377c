// Package dataprocessing implements the three transform stages of the
// crime-incident pipeline: staging (join, outcome derivation, classification,
// column drop), primary typing (categorical enumeration and Location Sum), and
// reporting aggregation (group counts). It also owns CSV ingestion of the raw
// inputs and of staged checkpoints.
//
// Stages operate on in-memory tables from pkg/contracts/domain and never touch
// the filesystem themselves; checkpoint materialisation is the exporter's job.
package dataprocessing
