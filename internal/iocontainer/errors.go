package iocontainer

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnfixture/pkg/errcode"
)

// ContainerStartError creates an error for a container that
// could not be started.
func ContainerStartError(image string, err error) error {
	msg := `Cannot start container from <em>%s</em>

<em>Possible causes:</em>
  - Docker (or another container engine) is not running
  - The image cannot be pulled
  - The container did not open its port in time

<em>How to fix:</em>
  1. Check the engine: <em>docker info</em>
  2. Pull the image manually: <em>docker pull %s</em>
  3. Increase <em>container.startup_timeout</em>`

	vars := []any{image, image}

	return &gn.Error{
		Code: errcode.ContainerStartError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to start container %s: %w", image, err),
	}
}

// ContainerEndpointError creates an error for a container
// whose host or mapped port cannot be determined.
func ContainerEndpointError(id string, err error) error {
	msg := "Cannot find the database port of container <em>%s</em>"
	vars := []any{id}

	return &gn.Error{
		Code: errcode.ContainerEndpointError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to get endpoint of %s: %w", id, err),
	}
}

// ContainerStopError creates an error for a container that
// could not be terminated.
func ContainerStopError(id string, err error) error {
	msg := `Cannot stop container <em>%s</em>

<em>How to fix:</em>
  Remove it manually: <em>docker rm -f %s</em>`

	vars := []any{id, id}

	return &gn.Error{
		Code: errcode.ContainerStopError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to stop container %s: %w", id, err),
	}
}
