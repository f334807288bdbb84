package events

import "github.com/bengler/prosemirror/internal/event/topic"

// TopicConfigReloaded is published after the configuration file changed on
// disk and was reloaded successfully.
const TopicConfigReloaded topic.Topic = "config.reloaded"

// ConfigReloaded is the payload of TopicConfigReloaded.
type ConfigReloaded struct {
	Path string
}
