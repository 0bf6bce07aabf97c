// Package agentserver serves the tool dispatcher over the agent protocol:
// JSON-RPC over stdio, via mark3labs/mcp-go. It owns the resident process's
// one long-running loop — list-tools, call-tool, and orderly shutdown.
package agentserver

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sys/unix"

	"github.com/riwsky/iosef/internal/tools"
)

const (
	serverName    = "iosef"
	serverVersion = "1.0.0"

	// stdinPollInterval is how often the shutdown watcher polls fd 0 for a
	// hangup once the parent process (or pipe) goes away.
	stdinPollInterval = 500 * time.Millisecond
)

// Server wraps a tool dispatcher behind the agent-protocol stdio transport.
type Server struct {
	dispatcher *tools.Dispatcher
	mcpServer  *server.MCPServer
	stdio      *server.StdioServer

	mu        sync.Mutex
	isRunning bool
}

// New constructs a Server, registering every tool the dispatcher exposes.
func New(d *tools.Dispatcher) *Server {
	s := &Server{dispatcher: d}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools converts every tools.ToolDescriptor the dispatcher exposes
// into an mcp.Tool bound to a single dispatch-forwarding handler.
func (s *Server) registerTools() {
	for _, desc := range s.dispatcher.Descriptors() {
		s.mcpServer.AddTool(descriptorToMCPTool(desc), s.handlerFor(desc.Name))
	}
}

// handlerFor returns an mcp-go tool handler that forwards to
// dispatcher.Dispatch and translates the result back into an
// *mcp.CallToolResult.
func (s *Server) handlerFor(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := s.dispatcher.Dispatch(ctx, name, req.GetArguments())
		return toMCPResult(result), nil
	}
}

// toMCPResult converts a tools.ToolResult into the mcp-go content union.
func toMCPResult(result tools.ToolResult) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(result.Content))
	for _, item := range result.Content {
		switch item.Type {
		case "image":
			content = append(content, mcp.NewImageContent(item.Data, item.MimeType))
		case "audio":
			content = append(content, mcp.NewAudioContent(item.Data, item.MimeType))
		default:
			content = append(content, mcp.NewTextContent(item.Text))
		}
	}
	return &mcp.CallToolResult{Content: content, IsError: result.IsError}
}

// descriptorToMCPTool builds an mcp.Tool from a tools.ToolDescriptor's
// JSON-schema-shaped InputSchema, since the dispatcher (not this package)
// owns the canonical tool registry.
func descriptorToMCPTool(desc tools.ToolDescriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(desc.Description)}

	props, _ := desc.InputSchema["properties"].(map[string]interface{})
	required := map[string]bool{}
	if reqList, ok := desc.InputSchema["required"].([]string); ok {
		for _, name := range reqList {
			required[name] = true
		}
	}

	for name, raw := range props {
		prop, _ := raw.(map[string]interface{})
		typ, _ := prop["type"].(string)

		propOpts := []mcp.PropertyOption{}
		if required[name] {
			propOpts = append(propOpts, mcp.Required())
		}

		switch typ {
		case "number", "integer":
			opts = append(opts, mcp.WithNumber(name, propOpts...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(name, propOpts...))
		}
	}

	return mcp.NewTool(desc.Name, opts...)
}

// Start runs the agent-protocol server until stdin hangs up or the process
// receives SIGINT/SIGTERM/SIGHUP. It blocks until shutdown, and always
// releases the resource cache's handles before returning.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("agentserver: already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	return s.run()
}

func (s *Server) run() error {
	s.stdio = server.NewStdioServer(s.mcpServer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	stopWatch := make(chan struct{})
	defer close(stopWatch)
	go watchStdinHangup(stopWatch, cancel)

	go func() {
		<-sigChan
		cancel()
	}()

	log.Printf("[agentserver] iosef agent-protocol server started")
	err := s.stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && ctx.Err() == nil {
		log.Printf("[agentserver] listen error: %v", err)
	}
	log.Printf("[agentserver] shutting down")

	s.dispatcher.Cache.Shutdown()

	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()

	return nil
}

// watchStdinHangup polls fd 0 for POLLHUP/POLLNVAL/POLLERR without
// consuming any data, so a parent process exiting (closing its end of the
// pipe) triggers the same clean shutdown path as a signal. Polling rather
// than blocking on a read keeps stdin free for the protocol's own framing.
func watchStdinHangup(stop <-chan struct{}, cancel context.CancelFunc) {
	fds := []unix.PollFd{{Fd: 0, Events: 0}}
	for {
		select {
		case <-stop:
			return
		default:
		}
		n, err := unix.Poll(fds, int(stdinPollInterval/time.Millisecond))
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}
		if n == 0 {
			continue
		}
		if fds[0].Revents&(unix.POLLHUP|unix.POLLNVAL|unix.POLLERR) != 0 {
			cancel()
			return
		}
	}
}
