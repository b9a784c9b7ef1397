// Package bridge is the host side of an embedded editor session: it builds
// the editor launch URL and speaks the cross-document message protocol
// (ready handshake, paste, text fetch) over a Channel.
package bridge

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"resumehost/internal/config"
)

// ErrInvalidLaunch is returned when a launch URL cannot be built from the inputs.
var ErrInvalidLaunch = errors.New("invalid launch parameters")

const editorPath = "/browser/dist/cool.html"

// LaunchOptions are the editor query parameters besides WOPISrc.
type LaunchOptions struct {
	Lang       string
	Permission string
}

func (o LaunchOptions) withDefaults() LaunchOptions {
	if o.Lang == "" {
		o.Lang = "en"
	}
	if o.Permission == "" {
		o.Permission = "edit"
	}
	return o
}

// LaunchURL returns the address the host page loads in the editor frame:
//
//	<editorBase>/browser/dist/cool.html?WOPISrc=<escaped wopiBase/wopi/files/id>&lang=en&permission=edit
func LaunchURL(editorBase, wopiBase, fileID string, opts LaunchOptions) (string, error) {
	if fileID == "" {
		return "", fmt.Errorf("%w: file id is required", ErrInvalidLaunch)
	}
	editor, err := baseURL(editorBase)
	if err != nil {
		return "", fmt.Errorf("%w: editor url: %w", ErrInvalidLaunch, err)
	}
	wopi, err := baseURL(wopiBase)
	if err != nil {
		return "", fmt.Errorf("%w: wopi url: %w", ErrInvalidLaunch, err)
	}
	opts = opts.withDefaults()

	src := wopi + "/wopi/files/" + url.PathEscape(fileID)
	return editor + editorPath +
		"?WOPISrc=" + url.QueryEscape(src) +
		"&lang=" + url.QueryEscape(opts.Lang) +
		"&permission=" + url.QueryEscape(opts.Permission), nil
}

func baseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%q is not absolute", raw)
	}
	return u.String(), nil
}

// Launcher builds launch URLs for one editor and one public WOPI base.
type Launcher struct {
	editorBase string
	wopiBase   string
	opts       LaunchOptions
}

// NewLauncher returns a Launcher for the configured editor. wopiBase is the
// address the editor server uses to reach this host.
func NewLauncher(cfg config.EditorConfig, wopiBase string) *Launcher {
	return &Launcher{
		editorBase: cfg.URL,
		wopiBase:   wopiBase,
		opts:       LaunchOptions{Lang: cfg.Lang, Permission: cfg.Permission},
	}
}

// URL returns the launch URL for fileID.
func (l *Launcher) URL(fileID string) (string, error) {
	return LaunchURL(l.editorBase, l.wopiBase, fileID, l.opts)
}
