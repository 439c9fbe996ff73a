package sidecar

import _ "embed"

//go:embed scripts/nlp_worker.py
var workerScript []byte

//go:embed scripts/requirements.txt
var requirementsTxt []byte

//go:embed scripts/reply.schema.json
var replySchemaJSON []byte
