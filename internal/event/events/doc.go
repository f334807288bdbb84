// Package events defines the topics and payloads published by the editor.
package events
