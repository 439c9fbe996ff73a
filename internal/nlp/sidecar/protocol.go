package sidecar

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/textquiz/internal/nlp"
)

const (
	opAnnotate = "annotate"
	opSenses   = "senses"

	// maxLineSize bounds one reply line; annotations of long texts are big.
	maxLineSize = 16 << 20
)

// errBroken marks a worker whose stream can no longer be trusted.
var errBroken = errors.New("worker stream broken")

// WorkerError is an error reported by the Python worker for one request.
type WorkerError struct {
	Op      string
	Message string
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("nlp worker %s: %s", e.Op, e.Message)
}

type request struct {
	ID   string `json:"id"`
	Op   string `json:"op"`
	Text string `json:"text,omitempty"`
	Word string `json:"word,omitempty"`
	POS  string `json:"pos,omitempty"`
}

type reply struct {
	ID       string        `json:"id"`
	Error    string        `json:"error,omitempty"`
	Document *nlp.Document `json:"document,omitempty"`
	Senses   []nlp.Sense   `json:"senses,omitempty"`
}

type workerConfig struct {
	Model    string `json:"model"`
	NLTKData string `json:"nltk_data,omitempty"`
}

type readyMessage struct {
	Status   string   `json:"status"`
	Model    string   `json:"model"`
	Pipeline []string `json:"pipeline"`
	Error    string   `json:"error"`
}

var replySchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(replySchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse reply schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	const url = "schema://nlp-worker-reply.json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add reply schema: %w", err)
	}
	return c.Compile(url)
})

// decodeReply validates one reply line against the worker reply schema
// before decoding it.
func decodeReply(line []byte) (*reply, error) {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(line))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	schema, err := replySchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	var r reply
	if err := json.Unmarshal(line, &r); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	return &r, nil
}

// worker is one resident interpreter speaking newline-delimited JSON.
type worker struct {
	id     int
	stdin  io.WriteCloser
	stdout *bufio.Scanner
	stop   func() error
}

func newWorker(id int, stdin io.WriteCloser, stdout io.Reader, stop func() error) *worker {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &worker{id: id, stdin: stdin, stdout: scanner, stop: stop}
}

func (w *worker) writeLine(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.stdin.Write(append(data, '\n'))
	return err
}

func (w *worker) readLine() ([]byte, error) {
	if !w.stdout.Scan() {
		if err := w.stdout.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return w.stdout.Bytes(), nil
}

// handshake sends the worker config and waits for the ready line.
// A cancelled ctx stops the worker.
func (w *worker) handshake(ctx context.Context, cfg workerConfig) (*readyMessage, error) {
	type result struct {
		msg *readyMessage
		err error
	}
	done := make(chan result, 1)
	go func() {
		if err := w.writeLine(cfg); err != nil {
			done <- result{err: fmt.Errorf("send config: %w", err)}
			return
		}
		line, err := w.readLine()
		if err != nil {
			done <- result{err: fmt.Errorf("read ready: %w", err)}
			return
		}
		var msg readyMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			done <- result{err: fmt.Errorf("decode ready: %w", err)}
			return
		}
		if msg.Status != "ready" {
			done <- result{err: fmt.Errorf("worker not ready: %s", msg.Error)}
			return
		}
		done <- result{msg: &msg}
	}()

	select {
	case r := <-done:
		return r.msg, r.err
	case <-ctx.Done():
		_ = w.close()
		return nil, ctx.Err()
	}
}

// call performs one request. Errors wrapping errBroken mean the stream
// is out of sync and the worker must be replaced; a *WorkerError or a
// schema failure leaves it usable.
func (w *worker) call(req request) (*reply, error) {
	if err := w.writeLine(req); err != nil {
		return nil, fmt.Errorf("%w: write: %v", errBroken, err)
	}
	line, err := w.readLine()
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", errBroken, err)
	}
	rep, err := decodeReply(line)
	if err != nil {
		return nil, fmt.Errorf("nlp worker %s: %w", req.Op, err)
	}
	if rep.ID != req.ID {
		return nil, fmt.Errorf("%w: reply id %q for request %q", errBroken, rep.ID, req.ID)
	}
	if rep.Error != "" {
		return nil, &WorkerError{Op: req.Op, Message: rep.Error}
	}
	return rep, nil
}

func (w *worker) close() error {
	_ = w.stdin.Close()
	if w.stop != nil {
		return w.stop()
	}
	return nil
}
