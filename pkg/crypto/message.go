package crypto

import "encoding/binary"

// Domain separation prefixes. Changing either is a wire-format break.
const (
	proposalMessagePrefix = "ARS_CREATE_PROPOSAL"
	voteMessagePrefix     = "ARS_VOTE"
)

// ProposalMessage builds the canonical signed payload for proposal
// creation. Layout: prefix || agent || kind || params || timestamp
// (LE) || nonce (LE). The timestamp and nonce bind the message to one
// use; agentauth enforces both.
func ProposalMessage(agent []byte, policyKind uint8, policyParams []byte, timestamp int64, nonce uint64) []byte {
	msg := make([]byte, 0, len(proposalMessagePrefix)+len(agent)+1+len(policyParams)+16)
	msg = append(msg, proposalMessagePrefix...)
	msg = append(msg, agent...)
	msg = append(msg, policyKind)
	msg = append(msg, policyParams...)
	msg = binary.LittleEndian.AppendUint64(msg, uint64(timestamp))
	msg = binary.LittleEndian.AppendUint64(msg, nonce)
	return msg
}

// VoteMessage builds the canonical signed payload for a vote. Layout:
// prefix || agent || proposal id (LE) || prediction byte || stake (LE)
// || timestamp (LE) || nonce (LE).
func VoteMessage(agent []byte, proposalID uint64, prediction bool, stakeAmount uint64, timestamp int64, nonce uint64) []byte {
	msg := make([]byte, 0, len(voteMessagePrefix)+len(agent)+33)
	msg = append(msg, voteMessagePrefix...)
	msg = append(msg, agent...)
	msg = binary.LittleEndian.AppendUint64(msg, proposalID)
	if prediction {
		msg = append(msg, 1)
	} else {
		msg = append(msg, 0)
	}
	msg = binary.LittleEndian.AppendUint64(msg, stakeAmount)
	msg = binary.LittleEndian.AppendUint64(msg, uint64(timestamp))
	msg = binary.LittleEndian.AppendUint64(msg, nonce)
	return msg
}
