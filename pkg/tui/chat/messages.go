package chat

import (
	"github.com/killallgit/entropy/pkg/api"
	"github.com/killallgit/entropy/pkg/session"
)

// changeMsg carries a session mutation into Update
type changeMsg struct {
	session.Change
}

// runDoneMsg is sent once the run goroutine returns
type runDoneMsg struct {
	Result session.RunResult
	Err    error
}

// uploadDoneMsg is the result of an upload command
type uploadDoneMsg struct {
	Result *api.UploadResult
	Err    error
}

type errMsg error
