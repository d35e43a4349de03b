package mqtt

import "strings"

// Topic leaves under an inspector's subtree.
const (
	topicStatus    = "status"
	topicState     = "state"
	topicGameState = "gamestate"
)

// Topics builds the topics of one inspector instance.
//
//	topics := mqtt.NewTopics("dcsinspector", "5F1A...")
//	topics.GameState() // "dcsinspector/5F1A.../gamestate"
type Topics struct {
	base string
}

// NewTopics returns the topic builder for instance under prefix. Slashes
// at the edges of prefix are trimmed.
func NewTopics(prefix, instance string) Topics {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return Topics{base: instance}
	}
	return Topics{base: prefix + "/" + instance}
}

// Status returns the retained online/offline topic.
func (t Topics) Status() string { return t.base + "/" + topicStatus }

// State returns the host connection-state topic.
func (t Topics) State() string { return t.base + "/" + topicState }

// GameState returns the game-state snapshot topic.
func (t Topics) GameState() string { return t.base + "/" + topicGameState }

// All returns a wildcard matching every topic of the instance.
func (t Topics) All() string { return t.base + "/#" }
