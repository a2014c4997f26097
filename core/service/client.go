// Package service provides a convenience client for issuing requests
// through the route fabric broker.
package service

import (
	"errors"

	"github.com/geoffjay/routefabric/mesh"
	"github.com/geoffjay/routefabric/mesh/wire"

	log "github.com/sirupsen/logrus"
)

// Client wraps a mesh.BrokerConn, handling header construction and reply
// unwrapping for callers that just want to send a routable request body
// and get a response body back.
type Client struct {
	conn *mesh.BrokerConn
}

// NewClient connects a new Client to the broker.
func NewClient() (*Client, error) {
	conn, err := mesh.NewBrokerConn()
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// Close the underlying broker connection.
func (c *Client) Close() {
	log.Debug("closing client connection")
	c.conn.Close()
}

// SendRequest routes body (already encoded by the caller's protocol layer)
// under protocol, waits for the reply, and returns its decoded body.
func (c *Client) SendRequest(protocol string, msg wire.Routable, body []byte) ([]byte, error) {
	if err := c.conn.Route(protocol, msg, body); err != nil {
		return nil, err
	}

	header, err := c.conn.Recv()
	if err != nil {
		return nil, err
	}

	if header == nil {
		return nil, errors.New("didn't receive expected response")
	}

	log.WithField("message_id", header.MessageID).Debug("received reply")

	return header.Body, nil
}
