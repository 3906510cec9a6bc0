package testing

// Shared values for tests built on the mocks and fixtures.
const (
	TestUsersPath   = "/users"
	TestMissingPath = "/missing"
	TestToken       = "test-token"
)
