package commands_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"runtime"
	"strings"
	"sync"
	"testing"

	"todo/internal/backend/firebase"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/store"
	"todo/internal/tasklist"
	"todo/internal/testutil"
)

// runCommand is a helper to run a command against a store.
func runCommand(t *testing.T, cmd commands.Command, st store.Store, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, st, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// seedStore creates tasks oldest first, so the last name lists first.
func seedStore(t *testing.T, names ...string) (*testutil.FakeStore, []string) {
	t.Helper()
	fs := testutil.NewFakeStore()
	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, err := fs.Create(context.Background(), tasklist.Collection, store.Fields{
			tasklist.FieldName:      name,
			tasklist.FieldCompleted: false,
			tasklist.FieldCreatedAt: store.ServerTimestamp,
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		ids = append(ids, id)
	}
	return fs, ids
}

// sampleStore holds three tasks; "Walk dog" is completed.
func sampleStore(t *testing.T) (*testutil.FakeStore, []string) {
	t.Helper()
	fs, ids := seedStore(t, "Buy milk", "Walk dog", "Write report")
	if err := fs.Update(context.Background(), tasklist.Collection, ids[1], store.Fields{tasklist.FieldCompleted: true}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return fs, ids
}

// parseFlags binds and parses command flags the way the dispatcher does.
func parseFlags(t *testing.T, cmd commands.Command, args ...string) {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
}

func field(t *testing.T, fs *testutil.FakeStore, id, name string) any {
	t.Helper()
	fields, ok := fs.Get(tasklist.Collection, id)
	if !ok {
		t.Fatalf("task %s not found", id)
	}
	return fields[name]
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestVersionCommand_Verbose(t *testing.T) {
	cmd := &commands.VersionCmd{}
	cmd.SetVerbose(true)

	stdout, _, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasPrefix(stdout, "todo 0.1.0\ngo="+runtime.Version()+"\n") {
		t.Errorf("expected release then toolchain, got %q", stdout)
	}
	if !strings.Contains(stdout, "\nfirestore=") {
		t.Errorf("expected firestore line, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "todo toggle", "todo watch", "--filter"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Every registered command has usage text naming the binary.
func TestRegistry_AllCommandsDocumented(t *testing.T) {
	for _, cmd := range commands.DefaultRegistry.All() {
		if !strings.HasPrefix(cmd.Usage(), "todo ") {
			t.Errorf("%s: usage %q should start with 'todo '", cmd.Name(), cmd.Usage())
		}
		if cmd.Synopsis() == "" {
			t.Errorf("%s: missing synopsis", cmd.Name())
		}
	}
}

// Tests for list command
func TestListCommand_All(t *testing.T) {
	fs, _ := sampleStore(t)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, fs, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "list_all", stdout)
}

func TestListCommand_ActiveFilter(t *testing.T) {
	fs, _ := sampleStore(t)

	cmd := &commands.ListCmd{}
	cmd.SetFilter("active")
	stdout, _, code := runCommand(t, cmd, fs, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	testutil.GoldenString(t, "list_active", stdout)
}

func TestListCommand_Quiet(t *testing.T) {
	fs, _ := sampleStore(t)

	stdout, _, code := runCommand(t, &commands.ListCmd{}, fs, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	testutil.GoldenString(t, "list_quiet", stdout)
}

func TestListCommand_Empty(t *testing.T) {
	for _, quiet := range []bool{false, true} {
		stdout, stderr, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeStore(), nil, quiet)

		if code != exitcode.Success {
			t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
		}
		if stderr != "" {
			t.Errorf("expected no stderr, got %q", stderr)
		}
		expected := "no tasks found\n"
		if quiet {
			expected = ""
		}
		if stdout != expected {
			t.Errorf("quiet=%v: expected %q, got %q", quiet, expected, stdout)
		}
	}
}

func TestListCommand_EmptyFilterShowsFooter(t *testing.T) {
	fs, _ := seedStore(t, "Buy milk")

	cmd := &commands.ListCmd{}
	cmd.SetFilter("completed")
	stdout, _, _ := runCommand(t, cmd, fs, nil, false)

	expected := "no tasks found\n0 of 1 tasks visible.\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_InvalidFilter(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetFilter("bogus")
	_, stderr, code := runCommand(t, cmd, testutil.NewFakeStore(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid filter: bogus\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_SubscriptionErrors(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantErr  string
	}{
		{store.ErrUnavailable, exitcode.BackendError, "error: backend error: store unavailable\n"},
		{store.ErrPermission, exitcode.AuthError, "error: auth error: permission denied\n"},
	}

	for _, tt := range tests {
		fs := testutil.NewFakeStore()
		fs.SubscribeErr = tt.err

		stdout, stderr, code := runCommand(t, &commands.ListCmd{}, fs, nil, false)

		if code != tt.wantCode {
			t.Errorf("%v: expected exit code %d, got %d", tt.err, tt.wantCode, code)
		}
		if stdout != "" {
			t.Errorf("%v: expected no stdout, got %q", tt.err, stdout)
		}
		if stderr != tt.wantErr {
			t.Errorf("%v: expected %q, got %q", tt.err, tt.wantErr, stderr)
		}
	}
}

func TestListCommand_EndsSubscription(t *testing.T) {
	fs, _ := sampleStore(t)

	runCommand(t, &commands.ListCmd{}, fs, nil, false)

	if n := fs.ActiveSubscriptions(); n != 0 {
		t.Errorf("expected no active subscriptions, got %d", n)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	fs := testutil.NewFakeStore()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, fs, []string{"Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	listOut, _, _ := runCommand(t, &commands.ListCmd{}, fs, nil, false)
	if listOut != "   1  [ ] Buy milk\n1 of 1 tasks visible.\n" {
		t.Errorf("unexpected list after add %q", listOut)
	}
}

func TestAddCommand_TrimsTitle(t *testing.T) {
	fs := testutil.NewFakeStore()

	runCommand(t, &commands.AddCmd{}, fs, []string{"  Buy milk  "}, true)

	listOut, _, _ := runCommand(t, &commands.ListCmd{}, fs, nil, true)
	if listOut != "   1  [ ] Buy milk\n" {
		t.Errorf("unexpected list after add %q", listOut)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	fs := testutil.NewFakeStore()

	stdout, _, code := runCommand(t, &commands.AddCmd{}, fs, []string{"Buy milk"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if fs.Count(tasklist.Collection) != 1 {
		t.Errorf("expected 1 task, got %d", fs.Count(tasklist.Collection))
	}
}

func TestAddCommand_NoTitle(t *testing.T) {
	for _, args := range [][]string{nil, {"   "}} {
		fs := testutil.NewFakeStore()

		_, stderr, code := runCommand(t, &commands.AddCmd{}, fs, args, false)

		if code != exitcode.UserError {
			t.Errorf("%q: expected exit code %d, got %d", args, exitcode.UserError, code)
		}
		if stderr != "error: title required\n" {
			t.Errorf("%q: unexpected stderr %q", args, stderr)
		}
		if fs.Calls["Create"] != 0 {
			t.Errorf("%q: store should not be called", args)
		}
	}
}

func TestAddCommand_StoreFailure(t *testing.T) {
	fs := testutil.NewFakeStore()
	fs.CreateErr = store.ErrUnavailable

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, fs, []string{"Buy milk"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: backend error: store unavailable\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for toggle command
func TestToggleCommand_Success(t *testing.T) {
	fs, ids := sampleStore(t)

	stdout, stderr, code := runCommand(t, &commands.ToggleCmd{}, fs, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if field(t, fs, ids[1], tasklist.FieldCompleted) != false {
		t.Error("expected 'Walk dog' to be active again")
	}
}

func TestToggleCommand_Multiple(t *testing.T) {
	fs, ids := sampleStore(t)

	_, _, code := runCommand(t, &commands.ToggleCmd{}, fs, []string{"1", "3"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if field(t, fs, ids[2], tasklist.FieldCompleted) != true {
		t.Error("expected 'Write report' to be completed")
	}
	if field(t, fs, ids[0], tasklist.FieldCompleted) != true {
		t.Error("expected 'Buy milk' to be completed")
	}
	if field(t, fs, ids[1], tasklist.FieldCompleted) != true {
		t.Error("'Walk dog' should be untouched")
	}
}

func TestToggleCommand_NumbersFollowFilter(t *testing.T) {
	fs, ids := sampleStore(t)

	cmd := &commands.ToggleCmd{}
	parseFlags(t, cmd, "--filter", "completed")
	_, _, code := runCommand(t, cmd, fs, []string{"1"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if field(t, fs, ids[1], tasklist.FieldCompleted) != false {
		t.Error("expected 'Walk dog' to be toggled")
	}
	if field(t, fs, ids[2], tasklist.FieldCompleted) != false {
		t.Error("'Write report' should be untouched")
	}
}

func TestToggleCommand_BadRefs(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr string
	}{
		{nil, "error: task reference required\n"},
		{[]string{"x"}, "error: invalid task reference: x\n"},
		{[]string{"1", "1"}, "error: duplicate task reference: 1\n"},
		{[]string{"9"}, "error: task number out of range: 9\n"},
		{[]string{"1", "0"}, "error: task number out of range: 0\n"},
	}

	for _, tt := range tests {
		fs, _ := sampleStore(t)

		_, stderr, code := runCommand(t, &commands.ToggleCmd{}, fs, tt.args, false)

		if code != exitcode.UserError {
			t.Errorf("%q: expected exit code %d, got %d", tt.args, exitcode.UserError, code)
		}
		if stderr != tt.wantErr {
			t.Errorf("%q: expected %q, got %q", tt.args, tt.wantErr, stderr)
		}
		if fs.Calls["Update"] != 1 {
			t.Errorf("%q: no task should be updated", tt.args)
		}
	}
}

func TestToggleCommand_DeletedMeanwhile(t *testing.T) {
	fs, _ := sampleStore(t)
	fs.UpdateErr = store.ErrNotFound

	_, stderr, code := runCommand(t, &commands.ToggleCmd{}, fs, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: not found\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for edit command
func TestEditCommand_Success(t *testing.T) {
	fs, ids := sampleStore(t)

	stdout, stderr, code := runCommand(t, &commands.EditCmd{}, fs, []string{"2", "Walk", "cat"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if field(t, fs, ids[1], tasklist.FieldName) != "Walk cat" {
		t.Errorf("unexpected name %v", field(t, fs, ids[1], tasklist.FieldName))
	}
	if field(t, fs, ids[1], tasklist.FieldCompleted) != true {
		t.Error("rename should not change completion")
	}
}

func TestEditCommand_Errors(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr string
	}{
		{nil, "error: task reference required\n"},
		{[]string{"1"}, "error: title required\n"},
		{[]string{"1", "  "}, "error: title required\n"},
		{[]string{"abc", "title"}, "error: invalid task reference: abc\n"},
		{[]string{"4", "title"}, "error: task number out of range: 4\n"},
	}

	for _, tt := range tests {
		fs, _ := sampleStore(t)

		_, stderr, code := runCommand(t, &commands.EditCmd{}, fs, tt.args, false)

		if code != exitcode.UserError {
			t.Errorf("%q: expected exit code %d, got %d", tt.args, exitcode.UserError, code)
		}
		if stderr != tt.wantErr {
			t.Errorf("%q: expected %q, got %q", tt.args, tt.wantErr, stderr)
		}
	}
}

// Tests for rm command
func TestRmCommand_Yes(t *testing.T) {
	fs, ids := sampleStore(t)

	cmd := &commands.RmCmd{}
	cmd.SetYes(true)
	stdout, stderr, code := runCommand(t, cmd, fs, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if _, ok := fs.Get(tasklist.Collection, ids[2]); ok {
		t.Error("expected 'Write report' to be deleted")
	}
	if fs.Count(tasklist.Collection) != 2 {
		t.Errorf("expected 2 tasks left, got %d", fs.Count(tasklist.Collection))
	}
}

func TestRmCommand_PromptYes(t *testing.T) {
	fs, ids := sampleStore(t)

	cmd := &commands.RmCmd{}
	cmd.SetInput(strings.NewReader("y\n"))
	stdout, stderr, code := runCommand(t, cmd, fs, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != `Delete "Walk dog"? [y/N] ` {
		t.Errorf("unexpected prompt %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if _, ok := fs.Get(tasklist.Collection, ids[1]); ok {
		t.Error("expected 'Walk dog' to be deleted")
	}
}

func TestRmCommand_PromptDeclined(t *testing.T) {
	for _, answer := range []string{"n\n", "\n", "nope\n", ""} {
		fs, _ := sampleStore(t)

		cmd := &commands.RmCmd{}
		cmd.SetInput(strings.NewReader(answer))
		stdout, _, code := runCommand(t, cmd, fs, []string{"2"}, false)

		if code != exitcode.Success {
			t.Errorf("%q: expected exit code %d, got %d", answer, exitcode.Success, code)
		}
		if stdout != "cancelled\n" {
			t.Errorf("%q: expected 'cancelled\\n', got %q", answer, stdout)
		}
		if fs.Count(tasklist.Collection) != 3 {
			t.Errorf("%q: nothing should be deleted", answer)
		}
	}
}

func TestRmCommand_NonInteractiveNeedsYes(t *testing.T) {
	fs, _ := sampleStore(t)

	cmd := &commands.RmCmd{}
	cmd.SetNonInteractive()
	_, stderr, code := runCommand(t, cmd, fs, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: confirmation required (use --yes)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if fs.Calls["Delete"] != 0 {
		t.Error("store should not be called")
	}
}

func TestRmCommand_Errors(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr string
	}{
		{nil, "error: task reference required\n"},
		{[]string{"1", "2"}, "error: unexpected argument: 2\n"},
		{[]string{"x"}, "error: invalid task reference: x\n"},
		{[]string{"7"}, "error: task number out of range: 7\n"},
	}

	for _, tt := range tests {
		fs, _ := sampleStore(t)

		cmd := &commands.RmCmd{}
		cmd.SetYes(true)
		_, stderr, code := runCommand(t, cmd, fs, tt.args, false)

		if code != exitcode.UserError {
			t.Errorf("%q: expected exit code %d, got %d", tt.args, exitcode.UserError, code)
		}
		if stderr != tt.wantErr {
			t.Errorf("%q: expected %q, got %q", tt.args, tt.wantErr, stderr)
		}
	}
}

// hookWriter collects output and calls onFooter each time a snapshot
// footer is written.
type hookWriter struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	footers  int
	onFooter func(n int)
}

func (w *hookWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	n, err := w.buf.Write(p)
	var hook func()
	if strings.Contains(string(p), "tasks visible.") {
		w.footers++
		count := w.footers
		hook = func() { w.onFooter(count) }
	}
	w.mu.Unlock()
	if hook != nil {
		hook()
	}
	return n, err
}

func (w *hookWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// Tests for watch command
func TestWatchCommand_PrintsEverySnapshot(t *testing.T) {
	fs, _ := seedStore(t, "Buy milk")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &hookWriter{}
	out.onFooter = func(n int) {
		if n == 1 {
			// Runs on the watch goroutine; the snapshot it causes is queued.
			fs.Create(context.Background(), tasklist.Collection, store.Fields{
				tasklist.FieldName:      "Walk dog",
				tasklist.FieldCompleted: false,
				tasklist.FieldCreatedAt: store.ServerTimestamp,
			})
			return
		}
		cancel()
	}

	var errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir()}
	code := (&commands.WatchCmd{}).Run(ctx, cfg, fs, nil, out, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errBuf.String())
	}
	expected := "------------\n" +
		"   1  [ ] Buy milk\n" +
		"1 of 1 tasks visible.\n" +
		"------------\n" +
		"   1  [ ] Walk dog\n" +
		"   2  [ ] Buy milk\n" +
		"2 of 2 tasks visible.\n"
	if out.String() != expected {
		t.Errorf("expected %q, got %q", expected, out.String())
	}
	if fs.ActiveSubscriptions() != 0 {
		t.Error("watch should end its subscription")
	}
}

func TestWatchCommand_SubscriptionError(t *testing.T) {
	fs := testutil.NewFakeStore()
	fs.SubscribeErr = store.ErrPermission

	stdout, stderr, code := runCommand(t, &commands.WatchCmd{}, fs, nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: auth error: permission denied\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for config command
func TestConfigCommand(t *testing.T) {
	t.Setenv(firebase.EmulatorHostEnv, "")

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir: "/tmp/todo-config",
		Firebase: config.Firebase{
			APIKey:    "AIzaSyExample1234",
			ProjectID: "demo-todo",
		},
	}

	code := (&commands.ConfigCmd{}).Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "config_dir=/tmp/todo-config\n" +
		"FIREBASE_API_KEY=*************1234\n" +
		"FIREBASE_AUTH_DOMAIN=(unset)\n" +
		"FIREBASE_PROJECT_ID=demo-todo\n" +
		"FIREBASE_STORAGE_BUCKET=(unset)\n" +
		"FIREBASE_MESSAGING_SENDER_ID=(unset)\n" +
		"FIREBASE_APP_ID=(unset)\n" +
		"FIRESTORE_EMULATOR_HOST=(unset)\n" +
		"credentials=application default\n"
	if outBuf.String() != expected {
		t.Errorf("expected %q, got %q", expected, outBuf.String())
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
}

func TestConfigCommand_MissingProject(t *testing.T) {
	t.Setenv(firebase.EmulatorHostEnv, "localhost:8080")

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir()}

	code := (&commands.ConfigCmd{}).Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(outBuf.String(), "credentials=emulator\n") {
		t.Errorf("expected emulator credentials, got %q", outBuf.String())
	}
	if !errors.Is(cfg.Firebase.Validate(), config.ErrNoProjectID) {
		t.Error("expected missing project id")
	}
	if errBuf.String() != "error: "+config.ErrNoProjectID.Error()+"\n" {
		t.Errorf("unexpected stderr %q", errBuf.String())
	}
}

func TestHelpCommand_SingleCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, []string{"done"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.HasPrefix(stdout, "Usage: todo toggle [--filter <f>] <n...>\n\nFlip a task between active and completed (alias: done)\n") {
		t.Errorf("unexpected help %q", stdout)
	}
}

func TestHelpCommand_UnknownCommand(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, []string{"nope"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown command: nope\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestHelpCommand_ListsRegistry(t *testing.T) {
	reg := commands.NewRegistry()
	if err := reg.Register(&commands.VersionCmd{}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(&commands.AddCmd{}); err != nil {
		t.Fatal(err)
	}

	cmd := &commands.HelpCmd{}
	cmd.SetRegistry(reg)
	stdout, _, _ := runCommand(t, cmd, nil, nil, false)

	add := strings.Index(stdout, "  add        Create a task (alias: create)\n")
	version := strings.Index(stdout, "  version    Print version\n")
	if add < 0 || version < 0 || add > version {
		t.Errorf("expected sorted command list, got %q", stdout)
	}
	if strings.Contains(stdout, "todo watch") {
		t.Error("help should only describe the given registry")
	}
}

func TestRegistry_RejectsClashes(t *testing.T) {
	reg := commands.NewRegistry()
	if err := reg.Register(&commands.ToggleCmd{}); err != nil {
		t.Fatal(err)
	}

	err := reg.Register(&commands.ToggleCmd{})
	if err == nil || err.Error() != "command already registered: toggle" {
		t.Errorf("unexpected error %v", err)
	}

	if _, ok := reg.Find("done"); !ok {
		t.Error("alias should resolve")
	}
	if n := len(reg.All()); n != 1 {
		t.Errorf("expected 1 command, got %d", n)
	}
}
