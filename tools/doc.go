// Package tools defines the Tool interfaces, parameter schemas and MCP registration.
package tools
