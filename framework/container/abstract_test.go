package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-nest/framework/container"
)

const tokenSender container.Token = "mail.Sender"

type smtpSender struct{}
type logSender struct{}

func senderDescriptor(token container.Token, name string, primary bool, build func() any) *container.Descriptor {
	return &container.Descriptor{
		Token:      token,
		Name:       name,
		Implements: tokenSender,
		Primary:    primary,
		Construct:  func([]any) (any, error) { return build(), nil },
	}
}

func TestAbstract_SingleImplementerResolves(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register(senderDescriptor("mail.smtp", "", false, func() any { return &smtpSender{} })))

	got, err := c.Resolve(tokenSender)
	require.NoError(t, err)
	assert.IsType(t, &smtpSender{}, got)
}

func TestAbstract_PrimaryWinsOverSiblings(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register(senderDescriptor("mail.smtp", "smtp", true, func() any { return &smtpSender{} })))
	require.NoError(t, c.Register(senderDescriptor("mail.log", "log", false, func() any { return &logSender{} })))

	got, err := c.Resolve(tokenSender)
	require.NoError(t, err)
	assert.IsType(t, &smtpSender{}, got)
}

func TestAbstract_NamedImplementerSelected(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register(senderDescriptor("mail.smtp", "smtp", true, func() any { return &smtpSender{} })))
	require.NoError(t, c.Register(senderDescriptor("mail.log", "log", false, func() any { return &logSender{} })))

	got, err := c.ResolveNamed(tokenSender, "log")
	require.NoError(t, err)
	assert.IsType(t, &logSender{}, got)
}

func TestAbstract_UnknownNameFails(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register(senderDescriptor("mail.smtp", "smtp", false, func() any { return &smtpSender{} })))

	_, err := c.ResolveNamed(tokenSender, "carrier-pigeon")
	var ambiguous *container.AmbiguousDependencyError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "carrier-pigeon", ambiguous.Name)
}

func TestAbstract_TwoImplementersNoPrimaryIsAmbiguous(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register(senderDescriptor("mail.smtp", "smtp", false, func() any { return &smtpSender{} })))
	require.NoError(t, c.Register(senderDescriptor("mail.log", "log", false, func() any { return &logSender{} })))

	_, err := c.Resolve(tokenSender)
	var ambiguous *container.AmbiguousDependencyError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, tokenSender, ambiguous.Contract)
	assert.Len(t, ambiguous.Candidates, 2)
}

func TestAbstract_DuplicatePrimaryRejectedAtRegistration(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register(senderDescriptor("mail.smtp", "smtp", true, func() any { return &smtpSender{} })))

	err := c.Register(senderDescriptor("mail.log", "log", true, func() any { return &logSender{} }))
	var dup *container.DuplicatePrimaryError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, tokenSender, dup.Contract)
}

func TestAbstract_ReRegisteringSameTokenIsNotDuplicatePrimary(t *testing.T) {
	c := container.New()
	desc := senderDescriptor("mail.smtp", "smtp", true, func() any { return &smtpSender{} })
	require.NoError(t, c.Register(desc))
	require.NoError(t, c.Register(desc), "re-registration of the same token should overwrite, not conflict")

	got, err := c.Resolve(tokenSender)
	require.NoError(t, err)
	assert.IsType(t, &smtpSender{}, got)
}

func TestAbstract_InjectedAsConstructorDependency(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register(senderDescriptor("mail.smtp", "", false, func() any { return &smtpSender{} })))

	type notifier struct{ sender any }
	require.NoError(t, c.Register(&container.Descriptor{
		Token:        "notifier",
		Dependencies: []container.Token{tokenSender},
		Construct: func(deps []any) (any, error) {
			return &notifier{sender: deps[0]}, nil
		},
	}))

	got, err := container.Resolve[*notifier](c, "notifier")
	require.NoError(t, err)
	assert.IsType(t, &smtpSender{}, got.sender)
}
