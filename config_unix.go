package staticserver

// socketReusePort allows a port to be bound by multiple discrete processes at the same time. While only one socket is
// active at any given time and the first socket to be bound must release in order to allow for traffic to proceed to
// the second socket, the bind operation will not fail. During a restart this shortens the window in which the
// bind-retry loop observes "address already in use" from the outgoing process instance.
const socketReusePort = 15
