package ports

import "github.com/brickbyblock/broker/core"

// Tokenizer converts between sessions and signed bearer tokens
type Tokenizer interface {
	SessionToToken(session *core.Session) (string, error)
	TokenToSession(token string) (*core.Session, error)
}
