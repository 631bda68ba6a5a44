// Package subscription implements the subscribe workflow: validate the
// submitted address, record it in the store, then send the welcome mail.
//
// The two downstream calls run in sequence. A duplicate-key response from the
// store is not an error: the address is already recorded and the welcome
// mail is still sent. Any other store failure stops the workflow before mail
// is attempted. Nothing is retried and a failed send does not undo the
// insert.
//
// The service depends only on the Repository and Mailer interfaces defined
// in repository.go. It never imports net/http or database/sql directly.
package subscription
