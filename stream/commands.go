package stream

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/animtx/playback"
)

// CommandMessage asks for a transport command, e.g. {"type":"pause"} or
// {"type":"tempo","tempo":4}.
type CommandMessage struct {
	Type  string `json:"type"`
	Tempo int    `json:"tempo,omitempty"`
}

// StatusMessage answers a command with the resulting transport state.
type StatusMessage struct {
	Type    string          `json:"type"`
	Command string          `json:"command"`
	Error   string          `json:"error,omitempty"`
	Status  playback.Status `json:"status"`
}

// Transport is the part of the playback controller driven over MQTT.
type Transport interface {
	Dispatch(cmd playback.Command, arg int) error
	Status() (playback.Status, error)
}

// Commands subscribes to JSON command messages and runs them against a
// Transport.
type Commands struct {
	config    Config
	client    mqtt.Client
	transport Transport
}

// NewCommands creates an instance of Commands.
func NewCommands(config Config, client mqtt.Client, transport Transport) *Commands {
	c := new(Commands)
	c.config = config
	c.client = client
	c.transport = transport
	return c
}

// Subscribe starts listening on the commands topic.
func (c *Commands) Subscribe() error {
	token := c.client.Subscribe(c.config.Topics.Commands, 0, c.handleClientMessages)
	token.Wait()
	return token.Error()
}

func (c *Commands) handleClientMessages(client mqtt.Client, msg mqtt.Message) {
	log.Printf("Received msg %d on %s: %s\n", msg.MessageID(), msg.Topic(), msg.Payload())

	reply := c.Handle(msg.Payload())
	if reply.Error != "" {
		log.Printf("Command failed: %s", reply.Error)
	}
	if c.config.Topics.Status == "" {
		return
	}
	b, err := json.Marshal(reply)
	if err != nil {
		log.Println(err)
		return
	}
	token := client.Publish(c.config.Topics.Status, 0, false, b)
	token.Wait()
}

// Handle decodes one command message, runs it and reports the outcome.
func (c *Commands) Handle(payload []byte) StatusMessage {
	reply := StatusMessage{Type: "status"}

	var message CommandMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		reply.Error = fmt.Sprintf("bad message: %v", err)
		return c.withStatus(reply)
	}
	reply.Command = message.Type

	if message.Type != "status" {
		cmd, err := playback.ParseCommand(message.Type)
		if err == nil {
			err = c.transport.Dispatch(cmd, message.Tempo)
		}
		if err != nil {
			reply.Error = err.Error()
		}
	}
	return c.withStatus(reply)
}

func (c *Commands) withStatus(reply StatusMessage) StatusMessage {
	st, err := c.transport.Status()
	if err != nil && reply.Error == "" {
		reply.Error = err.Error()
	}
	reply.Status = st
	return reply
}
