// Package mocks provides gomock implementations of the core ports for handler and service tests.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	users := mocks.NewMockUserRepository(ctrl)
//	users.EXPECT().GetByEmail(gomock.Any(), "ada@example.com").Return(user, nil)
package mocks

// GetByEmail
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/target/doctrack-api/internal/core UserRepository

// List, ListByUser
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_repository_mock.go github.com/target/doctrack-api/internal/core JobRepository

// List, ListByJobIDs, UpdateStatus, Create
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=document_repository_mock.go github.com/target/doctrack-api/internal/core DocumentRepository

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=document_event_publisher_mock.go github.com/target/doctrack-api/internal/core DocumentEventPublisher

// Backs the job catalog cache in service tests.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/target/doctrack-api/internal/core CacheRepository
