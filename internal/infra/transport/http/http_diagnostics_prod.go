//go:build !dev

package http

const diagnosticsEnabled = false
