package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"report-assistant-be/internal/dto"
	"report-assistant-be/internal/service"
	"report-assistant-be/pkg/rag/session"
	"report-assistant-be/pkg/store"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

type repl struct {
	svc       service.IReportService
	sessionID uuid.UUID
	out       io.Writer
	readFile  func(string) ([]byte, error)
}

func newREPL(ctx context.Context, svc service.IReportService, out io.Writer) (*repl, error) {
	created, err := svc.CreateSession(ctx)
	if err != nil {
		return nil, err
	}
	return &repl{
		svc:       svc,
		sessionID: created.Id,
		out:       out,
		readFile:  os.ReadFile,
	}, nil
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	r.prompt()
	for scanner.Scan() {
		if quit := r.handle(ctx, scanner.Text()); quit {
			return nil
		}
		r.prompt()
	}
	return scanner.Err()
}

func (r *repl) prompt() {
	fmt.Fprint(r.out, color.CyanString("you> "))
}

// handle executes one input line and reports whether the user asked to quit.
func (r *repl) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if !strings.HasPrefix(line, "/") {
		r.chat(ctx, line)
		return false
	}

	command, arg, _ := strings.Cut(line, " ")
	switch command {
	case "/quit", "/exit":
		return true
	case "/upload":
		r.upload(ctx, strings.TrimSpace(arg))
	case "/reset":
		err := r.withSession(ctx, func(id uuid.UUID) error {
			_, err := r.svc.ResetConversation(ctx, id)
			return err
		})
		if err != nil {
			r.fail(err)
			return false
		}
		fmt.Fprintln(r.out, color.GreenString("Conversation cleared. The report is still loaded."))
	case "/summary":
		state, err := r.snapshot(ctx)
		if err != nil {
			r.fail(err)
			return false
		}
		if state.State != store.StateReady {
			r.fail(session.ErrNotReady)
			return false
		}
		fmt.Fprintln(r.out, color.New(color.Bold).Sprintf("Summary of %s", state.Filename))
		fmt.Fprintln(r.out, state.Summary)
	case "/history":
		state, err := r.snapshot(ctx)
		if err != nil {
			r.fail(err)
			return false
		}
		if len(state.History) == 0 {
			fmt.Fprintln(r.out, "No messages yet.")
		}
		for _, turn := range state.History {
			fmt.Fprintf(r.out, "%s %s\n", r.speaker(turn.Role), turn.Content)
		}
	default:
		fmt.Fprintln(r.out, color.YellowString("Unknown command %s. Try /upload, /summary, /history, /reset or /quit.", command))
	}
	return false
}

func (r *repl) upload(ctx context.Context, path string) {
	if path == "" {
		fmt.Fprintln(r.out, color.YellowString("Usage: /upload <path>"))
		return
	}

	content, err := r.readFile(path)
	if err != nil {
		r.fail(err)
		return
	}

	fmt.Fprintln(r.out, color.HiBlackString("Analyzing report..."))
	var res *dto.UploadReportResponse
	err = r.withSession(ctx, func(id uuid.UUID) (err error) {
		res, err = r.svc.UploadReport(ctx, id, &dto.UploadReportRequest{
			Filename: filepath.Base(path),
			Content:  content,
		})
		return err
	})
	if err != nil {
		r.fail(err)
		return
	}
	if !res.Loaded {
		fmt.Fprintln(r.out, color.YellowString("%s is already loaded.", res.Session.Filename))
		return
	}

	fmt.Fprintln(r.out, color.GreenString("Loaded %s (%d characters).", res.Session.Filename, res.Session.DocumentChars))
	fmt.Fprintln(r.out, res.Session.Summary)
}

func (r *repl) chat(ctx context.Context, message string) {
	var res *dto.SendChatResponse
	err := r.withSession(ctx, func(id uuid.UUID) (err error) {
		res, err = r.svc.SendChat(ctx, id, &dto.SendChatRequest{Message: message})
		return err
	})
	if err != nil {
		r.fail(err)
		return
	}
	fmt.Fprintf(r.out, "%s %s\n", r.speaker(store.RoleAssistant), res.Reply)
}

func (r *repl) snapshot(ctx context.Context) (state *dto.SessionResponse, err error) {
	err = r.withSession(ctx, func(id uuid.UUID) (err error) {
		state, err = r.svc.GetSession(ctx, id)
		return err
	})
	return state, err
}

// withSession runs call against the current session. If the session is gone
// it opens a fresh one and retries once.
func (r *repl) withSession(ctx context.Context, call func(id uuid.UUID) error) error {
	err := call(r.sessionID)
	if !errors.Is(err, service.ErrSessionNotFound) {
		return err
	}
	created, err := r.svc.CreateSession(ctx)
	if err != nil {
		return err
	}
	r.sessionID = created.Id
	fmt.Fprintln(r.out, color.YellowString("Session expired, started a new one."))
	return call(r.sessionID)
}

func (r *repl) speaker(role string) string {
	if role == store.RoleUser {
		return color.CyanString("you>")
	}
	return color.MagentaString("assistant>")
}

func (r *repl) fail(err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, session.ErrNotReady):
		msg = "Upload a report first with /upload <path>."
	case errors.Is(err, session.ErrNoDocument):
		msg = "No report loaded yet."
	}
	fmt.Fprintln(r.out, color.RedString(msg))
}
