package repository

// anyArgs converts an ID set to the argument slice bob's Arg expects.
func anyArgs(ids []string) []any {
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}
