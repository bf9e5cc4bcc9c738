package backend

import "sync"

// One pipeline, one accelerator: concurrent generation calls contend for the
// same device memory, so they are admitted one at a time. The source
// behavior is unsynchronized; this lock is a deliberate hardening.
var generationLock sync.Mutex
