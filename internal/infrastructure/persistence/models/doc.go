// Package models contains the GORM persistence models and their mapping
// functions to and from the domain aggregates. Domain types stay free of
// persistence concerns; anything schema-specific lives here.
package models
