// Package test provides testing utilities for the billing service, such as
// the MongoDB test container.
package test

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// MongoImage is the MongoDB image used by the test container.
	MongoImage = "mongo:7"
	// MongoPort is the port MongoDB listens on inside the container.
	MongoPort = "27017"
)

// StartMongoContainer starts a MongoDB container for testing. The caller must
// terminate it. Use container.Endpoint(ctx, "mongodb") to get its URI.
func StartMongoContainer(ctx context.Context) (testcontainers.Container, error) {
	exposedPort := nat.Port(fmt.Sprintf("%s/tcp", MongoPort))
	return testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        MongoImage,
				ExposedPorts: []string{string(exposedPort)},
				WaitingFor: wait.ForAll(
					wait.ForLog("Waiting for connections"),
					wait.ForListeningPort(exposedPort),
				),
			},
			Started: true,
		})
}

// RandomDatabaseName returns a database name that does not collide with other
// test runs sharing the same server.
func RandomDatabaseName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return fmt.Sprintf("db-%x", b)
}
