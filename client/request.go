package client

import (
	"bytes"
	"fmt"
	"time"

	"github.com/inconshreveable/log15"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/timeout"
)

var log = log15.New("pkg", "client")

func errorf(code int, body []byte) error {
	return fmt.Errorf("%d: %s", code, string(body))
}

func newTransport(gateway string, reqTimeout time.Duration) *gentleman.Client {
	cli := gentleman.New()
	cli.URL(gateway)
	cli.Use(timeout.Request(reqTimeout))
	return cli
}

func (c *Client) get(path string) ([]byte, error) {
	req := c.transport.Request()
	req.Method("GET")
	req.Path(path)

	res, err := req.Send()
	if err != nil {
		log.Error("get request failed", "path", path, "err", err)
		return nil, err
	}
	body := res.Bytes()

	if res.StatusCode >= 400 {
		log.Warn("get request returned error status", "path", path, "status", res.StatusCode)
		return nil, statusError(res.StatusCode, body)
	}
	return body, nil
}

func (c *Client) post(path string, payload []byte) (int, error) {
	req := c.transport.Request()
	req.Method("POST")
	req.Path(path)
	req.SetHeader("Content-Type", "application/json")
	req.Body(bytes.NewReader(payload))

	res, err := req.Send()
	if err != nil {
		log.Error("post request failed", "path", path, "err", err)
		return -1, err
	}
	body := res.Bytes()
	code := res.StatusCode

	if code >= 400 {
		log.Warn("post request returned error status", "path", path, "status", code)
		return code, statusError(code, body)
	}
	return code, nil
}
