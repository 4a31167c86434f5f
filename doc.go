// Package main provides the entry point for the Taskward server.
// Taskward is a web-based business-management tool built around a task
// hierarchy; this repository contains its authorization core: the policy
// data model (rights, operations, access entries, group-task bindings),
// the task-tree-aware resolution engine, the pluggable per-entity right
// checks and the administration API guarding them.
package main
