// Package domain defines the core business entities of the task-management
// system and the validation rules that apply to them. It has no dependencies
// on persistence, transport, or any other layer.
package domain
