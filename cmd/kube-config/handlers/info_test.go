package handlers

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardleopard/kubernetes-on-arm/internal/node"
	"github.com/gardleopard/kubernetes-on-arm/internal/status"
)

func captureInfo(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	origOut := infoOut
	origStyled := styledOutput
	t.Cleanup(func() {
		infoOut = origOut
		styledOutput = origStyled
	})
	infoOut = &buf
	styledOutput = func() bool { return false }
	return &buf
}

func TestInfoReportsRoleAndBuild(t *testing.T) {
	fake, _ := swapFactories(t, &node.FakeInspector{Fixed: node.RoleMaster, Version: "28.0.1"})
	fake.Outputs["systemctl"] = "systemd 255 (255.4-1)\n+PAM +AUDIT"
	buf := captureInfo(t)

	err := Info(context.Background(), status.BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Role: master")
	assert.Contains(t, out, "docker: 28.0.1")
	assert.Contains(t, out, "systemd: systemd 255 (255.4-1)")
	assert.Contains(t, out, "1.2.3")
}

func TestInfoSucceedsWithoutRuntime(t *testing.T) {
	swapFactories(t, nil)
	buf := captureInfo(t)

	origInspector := newInspector
	t.Cleanup(func() { newInspector = origInspector })
	newInspector = func() (status.RuntimeInfo, error) {
		return nil, assert.AnError
	}

	err := Info(context.Background(), status.BuildInfo{Version: "dev"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Role: none")
}
