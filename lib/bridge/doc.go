// Package bridge implements the command/result channel that carries results of
// background tasks back to the frame loop of the application.
//
// Features and Guarantees:
//
//   - Bounded: a channel holds at most its capacity of pending messages
//   - Backpressure: Send blocks while the channel is full, until a slot frees up,
//     the receiver is dropped or the sender's context ends
//   - FIFO: messages of one sender are received in the order they were sent
//   - Non-blocking receive: TryRecv and Drain never wait, so the frame loop is
//     never stalled by a slow background task
//   - Multi-Producer: Sender is a value type, copies can be handed to any number
//     of tasks
//   - Single Consumer: the Receiver belongs to the node that created the channel
//
// A node drops its Receiver when it is closed. Tasks still running for that node
// then fail their next Send with ErrReceiverDropped, log it and end.
package bridge
