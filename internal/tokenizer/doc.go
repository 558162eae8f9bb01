// Package tokenizer turns text into the token id batches the encoder's
// embedding layer consumes.
//
// The package provides:
//   - Tokenizer: text <-> token id interface
//   - TikToken: OpenAI BPE encodings via pkoukk/tiktoken-go
//   - EncodeBatch: pads and truncates several texts to one [batch][seq] grid
//     and reports the true lengths for nn.PaddingMask
//
// Example usage:
//
//	tok, err := tokenizer.NewTikToken("cl100k_base")
//	if err != nil {
//	    return err
//	}
//
//	batch, err := tokenizer.EncodeBatch(tok, []string{"Hello, world!", "Hi"}, 512)
//	if err != nil {
//	    return err
//	}
//
//	x, err := embed.Forward(batch.IDs)
//	mask, err := nn.PaddingMask(batch.Lengths, batch.SeqLen())
package tokenizer
