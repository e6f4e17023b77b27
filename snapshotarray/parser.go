package snapshotarray

// Parser converts a Snapshot into a typed model object.
type Parser[T any] func(snapshot Snapshot) (T, error)

// DataParser returns a Parser that decodes each snapshot into a T via Snapshot.DataTo.
func DataParser[T any]() Parser[T] {
	return func(snapshot Snapshot) (T, error) {
		var model T
		if err := snapshot.DataTo(&model); err != nil {
			var zero T
			return zero, err
		}

		return model, nil
	}
}
