package docker

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testfold/pkg/errs"
	"testfold/pkg/executor"
)

type rule struct {
	match  string
	stdout string
	stderr string
	err    func(cmd string) error
	exit   *int
}

// fakeExecutor answers engine commands by substring; unmatched commands succeed with empty output.
type fakeExecutor struct {
	mu    sync.Mutex
	calls []string
	opts  []executor.Options
	rules []rule
}

func (f *fakeExecutor) Execute(_ context.Context, cmd string, opts executor.Options) (executor.CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd)
	f.opts = append(f.opts, opts)

	for _, r := range f.rules {
		if !strings.Contains(cmd, r.match) {
			continue
		}
		res := executor.CommandResult{Command: cmd, Stdout: r.stdout, Stderr: r.stderr, ExitCode: r.exit, Attempts: 1}
		if r.err != nil {
			return res, r.err(cmd)
		}
		res.Success = true
		return res, nil
	}
	zero := 0
	return executor.CommandResult{Command: cmd, Success: true, ExitCode: &zero, Attempts: 1}, nil
}

func (f *fakeExecutor) reply(match, stdout string) *fakeExecutor {
	zero := 0
	f.rules = append(f.rules, rule{match: match, stdout: stdout, exit: &zero})
	return f
}

func (f *fakeExecutor) fail(match string, exit int, stderr string) *fakeExecutor {
	code := exit
	f.rules = append(f.rules, rule{
		match:  match,
		stderr: stderr,
		exit:   &code,
		err: func(cmd string) error {
			return errs.NewCommandExecutionError(cmd, &code, "", stderr, nil)
		},
	})
	return f
}

func (f *fakeExecutor) failWith(match string, err error) *fakeExecutor {
	f.rules = append(f.rules, rule{match: match, err: func(string) error { return err }})
	return f
}

func (f *fakeExecutor) running() *fakeExecutor { return f.reply("status=running", "app\n") }
func (f *fakeExecutor) exists() *fakeExecutor  { return f.reply("ps -a", "app\n") }
func (f *fakeExecutor) imageBuilt() *fakeExecutor {
	return f.reply("images -q", "sha256:1234\n")
}

func (f *fakeExecutor) count(match string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.Contains(c, match) {
			n++
		}
	}
	return n
}

func (f *fakeExecutor) last(match string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if strings.Contains(f.calls[i], match) {
			return f.calls[i]
		}
	}
	return ""
}

func newManager(f *fakeExecutor, platform string) *Manager {
	return NewManager(Config{Image: "testfold-env:latest", Container: "app", Platform: platform}, f, nil)
}

func TestStart_MissingContainerCreatesOnce(t *testing.T) {
	f := &fakeExecutor{}
	m := newManager(f, "linux")

	status, err := m.Start(context.Background(), CreateOptions{})

	require.NoError(t, err)
	assert.Equal(t, SetupCreated, status)
	assert.Equal(t, 1, f.count("docker run "))
	assert.Zero(t, f.count("docker start "))
}

func TestStart_RunningIsNoop(t *testing.T) {
	f := (&fakeExecutor{}).running().exists()
	m := newManager(f, "linux")

	status, err := m.Start(context.Background(), CreateOptions{})

	require.NoError(t, err)
	assert.Equal(t, SetupRunning, status)
	assert.Zero(t, f.count("docker run "))
	assert.Zero(t, f.count("docker start "))
}

func TestStart_StoppedContainerIsStarted(t *testing.T) {
	f := (&fakeExecutor{}).exists()
	m := newManager(f, "linux")

	status, err := m.Start(context.Background(), CreateOptions{})

	require.NoError(t, err)
	assert.Equal(t, SetupStarted, status)
	assert.Equal(t, "docker start app", f.last("docker start"))
	assert.Zero(t, f.count("docker run "))
}

func TestStart_FailureIsContainerStartError(t *testing.T) {
	f := (&fakeExecutor{}).exists().fail("docker start", 1, "Error response from daemon: port is already allocated")
	m := newManager(f, "linux")

	_, err := m.Start(context.Background(), CreateOptions{})

	var startErr *errs.ContainerStartError
	require.True(t, errors.As(err, &startErr))
	assert.Equal(t, errs.CodeContainerStart, startErr.Code)
	assert.Equal(t, "Error response from daemon: port is already allocated", startErr.Reason)
	assert.Equal(t, errs.Fatal, errs.SeverityOf(err))
}

func TestCreate_AlreadyExists(t *testing.T) {
	f := (&fakeExecutor{}).exists()
	m := newManager(f, "linux")

	err := m.Create(context.Background(), CreateOptions{})

	assert.True(t, errs.IsErrorCode(err, errs.CodeContainerAlreadyExists))
	assert.Zero(t, f.count("docker run "))
}

func TestCreate_RunArguments(t *testing.T) {
	f := &fakeExecutor{}
	m := newManager(f, "linux")

	err := m.Create(context.Background(), CreateOptions{
		Ports:       map[string]string{"8080": "80"},
		Volumes:     map[string]string{"/src": "/app"},
		Env:         map[string]string{"B": "2", "A": "1"},
		WorkDir:     "/app",
		User:        "node",
		Hostname:    "tf",
		AutoRemove:  true,
		Interactive: true,
		TTY:         true,
		HealthCheck: &HealthCheck{Command: "curl -f localhost", Interval: 5 * time.Second, Retries: 3},
	})

	require.NoError(t, err)
	assert.Equal(t,
		"docker run --name app -d --rm -p 8080:80 -v /src:/app -e A=1 -e B=2 -w /app -u node -h tf -i -t "+
			"--network host --health-cmd 'curl -f localhost' --health-interval 5s --health-retries 3 "+
			"testfold-env:latest tail -f /dev/null",
		f.last("docker run"))
}

func TestCreate_NetworkDefaultsPerPlatform(t *testing.T) {
	tests := []struct {
		platform string
		network  string
		want     string
	}{
		{"linux", "", "--network host"},
		{"darwin", "", ""},
		{"windows", "", ""},
		{"darwin", "bridge", "--network bridge"},
	}

	for _, tt := range tests {
		t.Run(tt.platform+"/"+tt.network, func(t *testing.T) {
			f := &fakeExecutor{}
			require.NoError(t, newManager(f, tt.platform).Create(context.Background(), CreateOptions{Network: tt.network}))

			cmd := f.last("docker run")
			if tt.want == "" {
				assert.NotContains(t, cmd, "--network")
			} else {
				assert.Contains(t, cmd, tt.want)
			}
		})
	}
}

func TestCreate_EnvFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(good, []byte("DATABASE_URL=postgres://localhost/test\n"), 0o644))

	t.Run("readable", func(t *testing.T) {
		f := &fakeExecutor{}
		require.NoError(t, newManager(f, "linux").Create(context.Background(), CreateOptions{EnvFiles: []string{good}}))
		assert.Contains(t, f.last("docker run"), "--env-file "+good)
	})

	t.Run("missing", func(t *testing.T) {
		f := &fakeExecutor{}
		err := newManager(f, "linux").Create(context.Background(), CreateOptions{EnvFiles: []string{filepath.Join(dir, "nope.env")}})

		var fileErr *errs.FileError
		require.True(t, errors.As(err, &fileErr))
		assert.Equal(t, "read env file", fileErr.Operation)
		assert.Zero(t, f.count("docker run"))
	})
}

func TestCreate_EngineFailure(t *testing.T) {
	f := (&fakeExecutor{}).fail("docker run", 125, "docker: Error response from daemon: pull access denied.")
	err := newManager(f, "linux").Create(context.Background(), CreateOptions{})

	assert.True(t, errs.IsErrorCode(err, errs.CodeContainerStart))
	assert.Contains(t, err.Error(), "pull access denied")
}

func TestStop_NeverReturnsError(t *testing.T) {
	f := (&fakeExecutor{}).running().fail("docker stop", 1, "cannot stop")
	m := newManager(f, "linux")

	out := m.Stop(context.Background())

	assert.False(t, out.OK())
	assert.False(t, out.Skipped)
	assert.Equal(t, errs.Advisory, out.Severity)
	assert.Equal(t, "stop", out.Op)
}

func TestStop_SkippedWhenNotRunning(t *testing.T) {
	f := &fakeExecutor{}
	out := newManager(f, "linux").Stop(context.Background())

	assert.True(t, out.OK())
	assert.True(t, out.Skipped)
	assert.Zero(t, f.count("docker stop"))
}

func TestRemove(t *testing.T) {
	f := (&fakeExecutor{}).exists()
	out := newManager(f, "linux").Remove(context.Background(), true)

	assert.True(t, out.OK())
	assert.Equal(t, "docker rm -f app", f.last("docker rm"))

	failing := (&fakeExecutor{}).exists().fail("docker rm", 1, "removal in progress")
	out = newManager(failing, "linux").Remove(context.Background(), false)
	assert.Error(t, out.Err)
	assert.Equal(t, "docker rm app", failing.last("docker rm"))

	absent := &fakeExecutor{}
	out = newManager(absent, "linux").Remove(context.Background(), true)
	assert.True(t, out.Skipped)
}

func TestTeardown(t *testing.T) {
	f := (&fakeExecutor{}).running().exists().fail("docker stop", 1, "boom")

	outcomes := newManager(f, "linux").Teardown(context.Background())

	require.Len(t, outcomes, 2)
	assert.Error(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err)
	assert.Equal(t, 1, f.count("docker rm -f app"))
}

func TestRestart(t *testing.T) {
	err := newManager(&fakeExecutor{}, "linux").Restart(context.Background())
	assert.True(t, errs.IsErrorCode(err, errs.CodeContainerNotFound))

	f := (&fakeExecutor{}).exists()
	require.NoError(t, newManager(f, "linux").Restart(context.Background()))
	assert.Equal(t, "docker restart app", f.last("restart"))
}

func TestExec_RequiresRunningContainer(t *testing.T) {
	f := (&fakeExecutor{}).exists()

	_, err := newManager(f, "linux").Exec(context.Background(), "npm test", ExecOptions{})

	var startErr *errs.ContainerStartError
	require.True(t, errors.As(err, &startErr))
	assert.Equal(t, "container is not running", startErr.Reason)
	assert.Zero(t, f.count("docker exec"))
}

func TestExec_Arguments(t *testing.T) {
	f := (&fakeExecutor{}).running().reply("docker exec", "ok\n")

	res, err := newManager(f, "linux").Exec(context.Background(), "npm test -- --ci", ExecOptions{
		WorkDir: "/app",
		User:    "node",
		Env:     map[string]string{"CI": "true"},
	})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "ok\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "docker exec -w /app -u node -e CI=true app sh -c 'npm test -- --ci'", f.last("docker exec"))
}

func TestExec_InnerFailureIsNotDispatchFailure(t *testing.T) {
	f := (&fakeExecutor{}).running().fail("docker exec", 1, "1 test failed")

	res, err := newManager(f, "linux").Exec(context.Background(), "pytest", ExecOptions{})

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "1 test failed", res.Stderr)
	assert.NoError(t, res.DispatchError)
}

func TestExec_DispatchFailures(t *testing.T) {
	tests := []struct {
		name string
		f    *fakeExecutor
	}{
		{"engine error", (&fakeExecutor{}).running().fail("docker exec", 125, "Error response from daemon")},
		{"timeout", (&fakeExecutor{}).running().failWith("docker exec", errs.NewCommandTimeoutError("docker exec", time.Second, "", ""))},
		{"cli missing", (&fakeExecutor{}).running().failWith("docker exec", errs.NewCommandNotFoundError("docker exec", "sh: 1: docker: not found", nil))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newManager(tt.f, "linux").Exec(context.Background(), "go test ./...", ExecOptions{})

			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Error(t, res.DispatchError)
		})
	}
}

func TestExec_InnerCommandNotFound(t *testing.T) {
	code := 127
	f := (&fakeExecutor{}).running()
	f.rules = append(f.rules, rule{
		match:  "docker exec",
		stderr: "sh: 1: pytest: not found",
		exit:   &code,
		err: func(cmd string) error {
			return errs.NewCommandNotFoundError(cmd, "sh: 1: pytest: not found", nil)
		},
	})

	res, err := newManager(f, "linux").Exec(context.Background(), "pytest", ExecOptions{})

	require.NoError(t, err)
	assert.Equal(t, 127, res.ExitCode)
	assert.NoError(t, res.DispatchError)
}

func TestGetLogs(t *testing.T) {
	f := (&fakeExecutor{}).reply("docker logs", "line 1\n")
	m := newManager(f, "linux")

	out := m.GetLogs(context.Background(), LogOptions{Tail: 50, Timestamps: true, Since: "10m"})

	assert.Equal(t, "line 1\n", out)
	assert.Equal(t, "docker logs --tail 50 --timestamps --since 10m app", f.last("docker logs"))

	failing := (&fakeExecutor{}).fail("docker logs", 1, "No such container: app")
	assert.Equal(t, "", newManager(failing, "linux").GetLogs(context.Background(), LogOptions{}))
}

func TestBuild_Arguments(t *testing.T) {
	f := &fakeExecutor{}
	m := newManager(f, "linux")

	err := m.Build(context.Background(), BuildOptions{
		Tags:       []string{"img:1", "img:latest"},
		Dockerfile: "docker/Dockerfile.test",
		Context:    "./ctx",
		CacheFrom:  []string{"img:cache"},
		BuildArgs:  map[string]string{"NODE": "20", "A": "b c"},
		Platform:   "linux/amd64",
		Target:     "test",
	})

	require.NoError(t, err)
	assert.Equal(t,
		"docker build -t img:1 -t img:latest -f docker/Dockerfile.test --cache-from img:cache "+
			"--build-arg 'A=b c' --build-arg NODE=20 --platform linux/amd64 --target test ./ctx",
		f.last("docker build"))
	assert.Equal(t, DefaultBuildTimeout, f.opts[len(f.opts)-1].Timeout)
}

func TestBuild_DefaultsAndFailure(t *testing.T) {
	f := (&fakeExecutor{}).fail("docker build", 1, "failed to solve: dockerfile parse error")
	m := newManager(f, "linux")

	err := m.Build(context.Background(), BuildOptions{Timeout: time.Minute})

	var buildErr *errs.ImageBuildError
	require.True(t, errors.As(err, &buildErr))
	assert.Equal(t, ".", buildErr.Path)
	assert.Equal(t, "failed to solve: dockerfile parse error", buildErr.Reason)
	assert.Equal(t, "docker build -t testfold-env:latest .", f.last("docker build"))
	assert.Equal(t, time.Minute, f.opts[len(f.opts)-1].Timeout)
}

func TestSetup_DaemonUnavailable(t *testing.T) {
	f := (&fakeExecutor{}).fail("docker info", 1, "Cannot connect to the Docker daemon")

	_, err := newManager(f, "linux").Setup(context.Background(), SetupOptions{})

	assert.True(t, errs.IsErrorCode(err, errs.CodeDockerDaemonUnavailable))
	assert.Zero(t, f.count("images"))
	assert.Zero(t, f.count("docker run"))
}

func TestSetup_BuildsAndCreates(t *testing.T) {
	f := &fakeExecutor{}
	var events []string

	res, err := newManager(f, "linux").Setup(context.Background(), SetupOptions{
		OnBuildStart:    func() { events = append(events, "start") },
		OnBuildComplete: func(time.Duration) { events = append(events, "complete") },
		OnBuildError:    func(error) { events = append(events, "error") },
	})

	require.NoError(t, err)
	assert.Equal(t, SetupCreated, res.Status)
	assert.True(t, res.Built)
	assert.Equal(t, []string{"start", "complete"}, events)
	assert.Equal(t, 1, f.count("docker build"))
	assert.Equal(t, 1, f.count("docker run"))
}

func TestSetup_BuildFailureEscalates(t *testing.T) {
	f := (&fakeExecutor{}).fail("docker build", 1, "no space left on device")
	var gotErr error

	_, err := newManager(f, "linux").Setup(context.Background(), SetupOptions{
		OnBuildError: func(err error) { gotErr = err },
	})

	assert.True(t, errs.IsErrorCode(err, errs.CodeImageBuild))
	assert.Equal(t, err, gotErr)
	assert.Zero(t, f.count("docker run"))
}

func TestSetup_AlreadyRunning(t *testing.T) {
	f := (&fakeExecutor{}).imageBuilt().running().exists()

	res, err := newManager(f, "linux").Setup(context.Background(), SetupOptions{})

	require.NoError(t, err)
	assert.Equal(t, SetupRunning, res.Status)
	assert.False(t, res.Built)
	assert.Zero(t, f.count("docker build"))
	assert.Zero(t, f.count("docker start"))
}

func TestSetup_StartsStoppedContainer(t *testing.T) {
	f := (&fakeExecutor{}).imageBuilt().exists()

	res, err := newManager(f, "linux").Setup(context.Background(), SetupOptions{})

	require.NoError(t, err)
	assert.Equal(t, SetupStarted, res.Status)
	assert.False(t, res.Built)
	assert.Equal(t, 1, f.count("docker start app"))
}

func TestGetContainerStatus(t *testing.T) {
	tests := []struct {
		stdout string
		want   ContainerStatus
	}{
		{"running\n", StatusRunning},
		{"exited", StatusExited},
		{"Paused", StatusPaused},
		{"restarting", StatusRestarting},
		{"removing", StatusRemoving},
		{"dead", StatusDead},
		{"created", StatusCreated},
		{"", StatusUnknown},
		{"weird", StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.stdout, func(t *testing.T) {
			f := (&fakeExecutor{}).reply(".State.Status", tt.stdout)
			assert.Equal(t, tt.want, newManager(f, "linux").GetContainerStatus(context.Background()))
		})
	}

	failing := (&fakeExecutor{}).fail("inspect", 1, "No such object: app")
	assert.Equal(t, StatusUnknown, newManager(failing, "linux").GetContainerStatus(context.Background()))
}

func TestProbesUseExactNameFilter(t *testing.T) {
	f := (&fakeExecutor{}).reply("ps -a", "app-old\napp2\n")
	m := newManager(f, "linux")

	assert.False(t, m.ContainerExists(context.Background()))
	assert.Contains(t, f.last("ps -a"), "'name=^/app$'")
}

func TestWaitHealthy(t *testing.T) {
	healthy := (&fakeExecutor{}).reply(".State.Health", "healthy\n")
	require.NoError(t, newManager(healthy, "linux").WaitHealthy(context.Background(), time.Millisecond, time.Second))

	unhealthy := (&fakeExecutor{}).reply(".State.Health", "unhealthy\n")
	err := newManager(unhealthy, "linux").WaitHealthy(context.Background(), time.Millisecond, time.Second)
	assert.True(t, errs.IsErrorCode(err, errs.CodeContainerStart))

	noCheck := (&fakeExecutor{}).reply(".State.Health", "\n").reply(".State.Status", "running\n")
	require.NoError(t, newManager(noCheck, "linux").WaitHealthy(context.Background(), time.Millisecond, time.Second))

	starting := (&fakeExecutor{}).reply(".State.Health", "starting\n")
	err = newManager(starting, "linux").WaitHealthy(context.Background(), 5*time.Millisecond, 30*time.Millisecond)
	assert.Contains(t, err.Error(), "timeout waiting")
}

// engineRunner sits below a real executor.Executor and answers engine commands by substring.
type engineRunner struct {
	mu      sync.Mutex
	calls   []string
	replies map[string]executor.RunOutput
}

func (r *engineRunner) Run(_ context.Context, command string, _ executor.RunSpec) executor.RunOutput {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, command)
	for match, out := range r.replies {
		if strings.Contains(command, match) {
			return out
		}
	}
	return executor.RunOutput{}
}

func (r *engineRunner) count(match string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if strings.Contains(c, match) {
			n++
		}
	}
	return n
}

func retryingManager(r *engineRunner) *Manager {
	exec := executor.New(executor.Options{Retries: 2, RetryDelay: time.Millisecond}, r, nil)
	return NewManager(Config{Image: "testfold-env:latest", Container: "app", Platform: "linux"}, exec, nil)
}

func TestStateChangingCallsIgnoreExecutorRetries(t *testing.T) {
	t.Run("exec", func(t *testing.T) {
		r := &engineRunner{replies: map[string]executor.RunOutput{
			"status=running": {Stdout: "app\n"},
			"docker exec":    {ExitCode: 1, Stderr: "1 failing"},
		}}

		res, err := retryingManager(r).Exec(context.Background(), "npm test", ExecOptions{})

		require.NoError(t, err)
		assert.Equal(t, 1, res.ExitCode)
		assert.Equal(t, 1, r.count("docker exec"))
	})

	t.Run("create", func(t *testing.T) {
		r := &engineRunner{replies: map[string]executor.RunOutput{
			"docker run": {ExitCode: 125, Stderr: "docker: Error response from daemon: invalid mount config."},
		}}

		err := retryingManager(r).Create(context.Background(), CreateOptions{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid mount config")
		assert.Equal(t, 1, r.count("docker run"))
	})

	t.Run("start", func(t *testing.T) {
		r := &engineRunner{replies: map[string]executor.RunOutput{
			"ps -a":        {Stdout: "app\n"},
			"docker start": {ExitCode: 1, Stderr: "port is already allocated"},
		}}

		_, err := retryingManager(r).Start(context.Background(), CreateOptions{})

		assert.True(t, errs.IsErrorCode(err, errs.CodeContainerStart))
		assert.Equal(t, 1, r.count("docker start"))
	})

	t.Run("build", func(t *testing.T) {
		r := &engineRunner{replies: map[string]executor.RunOutput{
			"docker build": {ExitCode: 1, Stderr: "failed to solve"},
		}}

		err := retryingManager(r).Build(context.Background(), BuildOptions{})

		assert.True(t, errs.IsErrorCode(err, errs.CodeImageBuild))
		assert.Equal(t, 1, r.count("docker build"))
	})

	t.Run("probes keep the default", func(t *testing.T) {
		r := &engineRunner{replies: map[string]executor.RunOutput{
			"docker info": {ExitCode: 1, Stderr: "Cannot connect to the Docker daemon"},
		}}

		assert.False(t, retryingManager(r).IsDaemonReachable(context.Background()))
		assert.Equal(t, 3, r.count("docker info"))
	})
}

func TestGetLogs_FollowStreamsUntilCancelled(t *testing.T) {
	f := (&fakeExecutor{}).failWith("docker logs", errs.NewCommandCancelledError("docker logs", context.Canceled))
	f.rules[0].stdout = "line1\nline2\n"
	m := newManager(f, "linux")

	var live bytes.Buffer
	out := m.GetLogs(context.Background(), LogOptions{Follow: true, Output: &live})

	assert.Equal(t, "line1\nline2\n", out)
	assert.Equal(t, "docker logs --follow app", f.last("docker logs"))

	f.mu.Lock()
	opts := f.opts[len(f.opts)-1]
	f.mu.Unlock()
	assert.True(t, opts.NoRetry)
	assert.Same(t, &live, opts.Stdout)
}
