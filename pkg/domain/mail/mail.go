package mail

import "context"

type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

//go:generate mockery --name=Sender --dir=. --output=./mocks --filename=sender_mock.go --case=underscore --with-expecter
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
